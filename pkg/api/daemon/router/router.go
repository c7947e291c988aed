package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/net-utils/ifaddrs/pkg/api"
	"github.com/net-utils/ifaddrs/pkg/ifaddrs"
	"github.com/net-utils/ifaddrs/pkg/ifindex"
)

type Backend struct {
	Querier Querier
}

// Querier is the host introspection surface the daemon exposes.
type Querier interface {
	ListInterfaces() ([]ifaddrs.Interface, error)
	NameToIndex(name string) (uint32, error)
	IndexToName(index uint32) (string, error)
}

// NewHostBackend returns a backend answering from the live host.
func NewHostBackend() *Backend {
	return &Backend{Querier: hostQuerier{}}
}

type hostQuerier struct{}

func (hostQuerier) ListInterfaces() ([]ifaddrs.Interface, error) {
	return ifaddrs.List()
}

func (hostQuerier) NameToIndex(name string) (uint32, error) {
	return ifindex.NameToIndex(name)
}

func (hostQuerier) IndexToName(index uint32) (string, error) {
	return ifindex.IndexToName(index)
}

func (b *Backend) onError(w http.ResponseWriter, r *http.Request, err error, ec int) {
	w.WriteHeader(ec)
	w.Header().Set("Content-Type", "application/json")
	// it is safe to return the err to the client, because the client is reliable
	e := api.ErrorJSON{
		Message: err.Error(),
	}
	_ = json.NewEncoder(w).Encode(e)
}

// lookupStatus maps resolver failures to HTTP statuses.
func lookupStatus(err error) int {
	switch {
	case errors.Is(err, ifindex.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ifindex.ErrNameTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (b *Backend) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	ifs, err := b.Querier.ListInterfaces()
	if err != nil {
		b.onError(w, r, err, http.StatusInternalServerError)
		return
	}
	out := make([]api.Interface, 0, len(ifs))
	for _, ifi := range ifs {
		out = append(out, api.NewInterface(ifi))
	}
	m, err := json.Marshal(out)
	if err != nil {
		b.onError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(m)
}

func (b *Backend) GetInterface(w http.ResponseWriter, r *http.Request) {
	name, ok := mux.Vars(r)["name"]
	if !ok {
		b.onError(w, r, errors.New("name not specified"), http.StatusBadRequest)
		return
	}
	ifs, err := b.Querier.ListInterfaces()
	if err != nil {
		b.onError(w, r, err, http.StatusInternalServerError)
		return
	}
	for _, ifi := range ifs {
		if ifi.Name != name {
			continue
		}
		m, err := json.Marshal(api.NewInterface(ifi))
		if err != nil {
			b.onError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(m)
		return
	}
	b.onError(w, r, errors.New("no such interface"), http.StatusNotFound)
}

func (b *Backend) ResolveName(w http.ResponseWriter, r *http.Request) {
	name, ok := mux.Vars(r)["name"]
	if !ok {
		b.onError(w, r, errors.New("name not specified"), http.StatusBadRequest)
		return
	}
	index, err := b.Querier.NameToIndex(name)
	if err != nil {
		b.onError(w, r, err, lookupStatus(err))
		return
	}
	b.writeResolved(w, r, api.ResolveResult{Name: name, Index: index})
}

func (b *Backend) ResolveIndex(w http.ResponseWriter, r *http.Request) {
	indexStr, ok := mux.Vars(r)["index"]
	if !ok {
		b.onError(w, r, errors.New("index not specified"), http.StatusBadRequest)
		return
	}
	index, err := strconv.ParseUint(indexStr, 10, 32)
	if err != nil {
		b.onError(w, r, err, http.StatusBadRequest)
		return
	}
	name, err := b.Querier.IndexToName(uint32(index))
	if err != nil {
		b.onError(w, r, err, lookupStatus(err))
		return
	}
	b.writeResolved(w, r, api.ResolveResult{Name: name, Index: uint32(index)})
}

func (b *Backend) writeResolved(w http.ResponseWriter, r *http.Request, res api.ResolveResult) {
	m, err := json.Marshal(res)
	if err != nil {
		b.onError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(m)
}

func AddRoutes(r *mux.Router, b *Backend) {
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Path("/interfaces").Methods("GET").HandlerFunc(b.GetInterfaces)
	v1.Path("/interfaces/{name}").Methods("GET").HandlerFunc(b.GetInterface)
	v1.Path("/resolve/name/{name}").Methods("GET").HandlerFunc(b.ResolveName)
	v1.Path("/resolve/index/{index}").Methods("GET").HandlerFunc(b.ResolveIndex)
}
