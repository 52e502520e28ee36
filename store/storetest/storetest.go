// Package storetest runs an in-memory stand-in for the backing REST data
// store: named collections, numeric auto-increment ids, equality filters,
// PUT replace and PATCH merge. Tests point a store.Client at Server.URL.
package storetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

type Row = map[string]any

// Server is the fake store plus a request journal for assertions.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	data   map[string][]Row
	nextID map[string]int

	requests []string

	// FailOn, when set, short-circuits matching requests with the returned
	// status; return 0 to let the request through.
	FailOn func(method, path string) int
}

func New() *Server {
	s := &Server{
		data:   make(map[string][]Row),
		nextID: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Seed inserts rows into a collection, assigning ids where missing.
func (s *Server) Seed(collection string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if _, ok := row["id"]; !ok {
			row["id"] = s.allocID(collection)
		} else if id, ok := row["id"].(int); ok {
			row["id"] = id
			if id >= s.nextID[collection] {
				s.nextID[collection] = id + 1
			}
		}
		s.data[collection] = append(s.data[collection], row)
	}
}

// Rows returns a copy of the collection's current rows.
func (s *Server) Rows(collection string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.data[collection]))
	copy(out, s.data[collection])
	return out
}

// Requests returns the journal of "METHOD /path" lines seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts journal lines with the given prefix.
func (s *Server) CountRequests(prefix string) int {
	n := 0
	for _, line := range s.Requests() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) allocID(collection string) int {
	if s.nextID[collection] == 0 {
		s.nextID[collection] = 1
	}
	id := s.nextID[collection]
	s.nextID[collection]++
	return id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	if s.FailOn != nil {
		if status := s.FailOn(r.Method, r.URL.Path); status != 0 {
			w.WriteHeader(status)
			return
		}
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.list(w, r, collection)
	case len(parts) == 1 && r.Method == http.MethodPost:
		s.create(w, r, collection)
	case len(parts) == 2:
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		s.entity(w, r, collection, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.data[collection]
	for field, values := range r.URL.Query() {
		matched := make([]Row, 0, len(rows))
		for _, row := range rows {
			if fmt.Sprint(row[field]) == values[0] {
				matched = append(matched, row)
			}
		}
		rows = matched
	}
	if rows == nil {
		rows = []Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, collection string) {
	var row Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	row["id"] = s.allocID(collection)
	s.data[collection] = append(s.data[collection], row)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) entity(w http.ResponseWriter, r *http.Request, collection string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, row := range s.data[collection] {
		if rowID(row) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.data[collection][idx])
	case http.MethodPut:
		var row Row
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		row["id"] = id
		s.data[collection][idx] = row
		writeJSON(w, http.StatusOK, row)
	case http.MethodPatch:
		var partial Row
		if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for k, v := range partial {
			s.data[collection][idx][k] = v
		}
		writeJSON(w, http.StatusOK, s.data[collection][idx])
	case http.MethodDelete:
		s.data[collection] = append(s.data[collection][:idx], s.data[collection][idx+1:]...)
		writeJSON(w, http.StatusOK, Row{})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// rowID tolerates ids stored as int (seeded) or float64 (decoded JSON).
func rowID(row Row) int {
	switch v := row["id"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return -1
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
