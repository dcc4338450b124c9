// Package shorturltest provides an in-memory short-URL service that honours the
// /api/urls contract, for testing code that talks to the real one.
package shorturltest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shorturl-conformance/internal/shorturl"
)

const msgVisited = "Visit added."

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Seed is an entry present before any test runs.
type Seed struct {
	URL  string
	Code string
}

// DefaultSeeds mirrors the data the real service starts with.
var DefaultSeeds = []Seed{
	{URL: "https://nakov.com", Code: "nak"},
	{URL: "https://selenium.dev", Code: "seldev"},
	{URL: "https://softuni.bg", Code: "su"},
}

// Behavior switches the fake into non-conforming modes.
type Behavior struct {
	// IgnoreVisits accepts visits without counting them.
	IgnoreVisits bool
	// AllowDuplicateCodes overwrites existing codes instead of rejecting them.
	AllowDuplicateCodes bool
	// DropCreates answers a create as successful without storing the entry.
	DropCreates bool
	// CreateMessage replaces the success message of a create when set.
	CreateMessage string
	// DeleteMessage replaces the success message of a delete when set.
	DeleteMessage string
}

// Option configures a Server.
type Option func(*Server)

// WithSeeds replaces DefaultSeeds.
func WithSeeds(seeds ...Seed) Option {
	return func(s *Server) { s.seeds = seeds }
}

// WithBehavior sets fault toggles.
func WithBehavior(b Behavior) Option {
	return func(s *Server) { s.behavior = b }
}

// Server is the fake service.
type Server struct {
	Store    *Store
	baseURL  string
	seeds    []Seed
	behavior Behavior
	router   *chi.Mux
}

// NewServer builds a fake whose short URLs are rooted at baseURL.
func NewServer(baseURL string, opts ...Option) *Server {
	s := &Server{
		Store:   NewStore(),
		baseURL: baseURL,
		seeds:   DefaultSeeds,
		router:  chi.NewMux(),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, seed := range s.seeds {
		_ = s.Store.Add(seed.URL, seed.Code, false)
	}

	api := humachi.New(s.router, huma.DefaultConfig("Short URL", "1.0.0"))
	registerRoutes(api, s)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs a fake on a loopback listener and closes it when tb finishes.
func Start(tb testing.TB, opts ...Option) (*httptest.Server, *Server) {
	tb.Helper()

	ts := httptest.NewUnstartedServer(nil)
	fake := NewServer("http://"+ts.Listener.Addr().String(), opts...)
	ts.Config.Handler = fake
	ts.Start()
	tb.Cleanup(ts.Close)

	return ts, fake
}

type listOutput struct {
	Body []shorturl.Entry
}

type codeInput struct {
	ShortCode string `doc:"The short code" example:"seldev" path:"shortCode"`
}

type entryOutput struct {
	Body shorturl.Entry
}

type createInput struct {
	Body shorturl.CreateRequest
}

type messageOutput struct {
	Status int
	Body   shorturl.Message
}

func message(status int, msg string) *messageOutput {
	return &messageOutput{Status: status, Body: shorturl.Message{Msg: msg}}
}

func registerRoutes(api huma.API, s *Server) {
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/urls",
		Summary: "List short URLs",
		Tags:    []string{"URLs"},
	}, s.list)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/urls/{shortCode}",
		Summary: "Get short URL",
		Tags:    []string{"URLs"},
	}, s.get)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/urls",
		Summary: "Create short URL",
		Tags:    []string{"URLs"},
	}, s.create)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/urls/{shortCode}",
		Summary: "Delete short URL",
		Tags:    []string{"URLs"},
	}, s.delete)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/urls/visit/{shortCode}",
		Summary: "Record a visit",
		Tags:    []string{"URLs"},
	}, s.visit)
}

func (s *Server) list(_ context.Context, _ *struct{}) (*listOutput, error) {
	records := s.Store.List()

	resp := &listOutput{Body: make([]shorturl.Entry, 0, len(records))}
	for _, r := range records {
		resp.Body = append(resp.Body, r.Entry(s.baseURL))
	}

	return resp, nil
}

func (s *Server) get(_ context.Context, in *codeInput) (*entryOutput, error) {
	r, err := s.Store.Get(in.ShortCode)
	if err != nil {
		return nil, huma.Error404NotFound("Short code not found: " + in.ShortCode)
	}

	return &entryOutput{Body: r.Entry(s.baseURL)}, nil
}

func (s *Server) create(_ context.Context, in *createInput) (*messageOutput, error) {
	if msg := validate(in.Body); msg != "" {
		return message(http.StatusBadRequest, msg), nil
	}

	added := message(http.StatusOK, shorturl.MsgAdded)
	if s.behavior.CreateMessage != "" {
		added.Body.Msg = s.behavior.CreateMessage
	}

	if s.behavior.DropCreates {
		if _, err := s.Store.Get(in.Body.ShortCode); err == nil {
			return message(http.StatusBadRequest, shorturl.MsgCodeExists), nil
		}

		return added, nil
	}

	err := s.Store.Add(in.Body.URL, in.Body.ShortCode, s.behavior.AllowDuplicateCodes)
	if errors.Is(err, ErrCodeExists) {
		return message(http.StatusBadRequest, shorturl.MsgCodeExists), nil
	}

	if err != nil {
		return nil, huma.Error500InternalServerError("failed to save short code")
	}

	return added, nil
}

func (s *Server) delete(_ context.Context, in *codeInput) (*messageOutput, error) {
	if err := s.Store.Delete(in.ShortCode); err != nil {
		return message(http.StatusNotFound, "Short code not found: "+in.ShortCode), nil
	}

	if s.behavior.DeleteMessage != "" {
		return message(http.StatusOK, s.behavior.DeleteMessage), nil
	}

	return message(http.StatusOK, "Short code deleted: "+in.ShortCode), nil
}

func (s *Server) visit(_ context.Context, in *codeInput) (*messageOutput, error) {
	if _, err := s.Store.Get(in.ShortCode); err != nil {
		return message(http.StatusNotFound, "Short code not found: "+in.ShortCode), nil
	}

	if !s.behavior.IgnoreVisits {
		_ = s.Store.Visit(in.ShortCode)
	}

	return message(http.StatusOK, msgVisited), nil
}

func validate(req shorturl.CreateRequest) string {
	if req.URL == "" {
		return "URL cannot be empty!"
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Invalid URL!"
	}

	if req.ShortCode == "" {
		return "Short code cannot be empty!"
	}

	if !codePattern.MatchString(req.ShortCode) {
		return "Short code must contain only letters, digits, '_' and '-'!"
	}

	return ""
}
