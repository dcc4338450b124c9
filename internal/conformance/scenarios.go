package conformance

import (
	"context"
	"net/http"

	"github.com/serroba/shorturl-conformance/internal/shorturl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenarios returns the suite in execution order.
func Scenarios() []Scenario {
	return []Scenario{
		{Order: 1, Name: "list all", Run: listAll},
		{Order: 2, Name: "get by known code", Run: getByKnownCode},
		{Order: 3, Name: "create new", Run: createNew},
		{Order: 4, Name: "reject duplicate code and url", DependsOn: []int{3}, Run: rejectDuplicate},
		{Order: 5, Name: "allow same url new code", DependsOn: []int{3}, Run: allowSameURLNewCode},
		{Order: 6, Name: "reject same code different url", DependsOn: []int{2}, Run: rejectSameCodeDifferentURL},
		{Order: 7, Name: "delete", DependsOn: []int{3}, Run: deleteCreated},
		{Order: 8, Name: "record visit", DependsOn: []int{1}, Run: recordVisit},
	}
}

type transportMarker interface {
	markTransport()
}

// noTransportError aborts the scenario when a call produced no usable response.
func noTransportError(t TB, err error) {
	t.Helper()

	if err == nil {
		return
	}

	if m, ok := t.(transportMarker); ok {
		m.markTransport()
	}

	require.NoError(t, err)
}

func listAll(ctx context.Context, t TB, s *Session) {
	resp, err := s.Client.List(ctx)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, "status code is different")

	entries, err := resp.DecodeEntries()
	noTransportError(t, err)

	assert.GreaterOrEqual(t, len(entries), s.Seed.MinEntries, "fewer short URLs than were seeded")
}

func getByKnownCode(ctx context.Context, t TB, s *Session) {
	resp, err := s.Client.Get(ctx, s.Seed.Code)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, "status code is different")

	entry, err := resp.DecodeEntry()
	noTransportError(t, err)

	assert.Equal(t, s.Seed.Code, entry.ShortCode, "short code is different")
	assert.Equal(t, s.Seed.URL, entry.URL, "original url is different")
}

func createNew(ctx context.Context, t TB, s *Session) {
	f := s.Fixtures

	resp, err := s.Client.Create(ctx, shorturl.CreateRequest{URL: f.UniqueURL, ShortCode: f.UniqueCode})
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, "short code was not added")

	s.Created = append(s.Created, f.UniqueCode)

	msg, err := resp.DecodeMessage()
	noTransportError(t, err)
	require.Equal(t, shorturl.MsgAdded, msg.Msg, "short code was not added")

	got, err := s.Client.Get(ctx, f.UniqueCode)
	noTransportError(t, err)
	assert.Equal(t, http.StatusOK, got.Status, "new short code cannot be fetched")
	assert.True(t, got.Contains(f.UniqueURL), "response does not contain the original url")
}

func rejectDuplicate(ctx context.Context, t TB, s *Session) {
	f := s.Fixtures

	resp, err := s.Client.Create(ctx, shorturl.CreateRequest{URL: f.UniqueURL, ShortCode: f.UniqueCode})
	noTransportError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Status, "duplicate short url was added")
	assert.True(t, resp.Contains(shorturl.MsgCodeExists), "error message is different")
}

func allowSameURLNewCode(ctx context.Context, t TB, s *Session) {
	f := s.Fixtures

	resp, err := s.Client.Create(ctx, shorturl.CreateRequest{URL: f.UniqueURL, ShortCode: f.DifferentCode})
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, "short code was not added")

	s.Created = append(s.Created, f.DifferentCode)

	msg, err := resp.DecodeMessage()
	noTransportError(t, err)
	require.Equal(t, shorturl.MsgAdded, msg.Msg, "short code was not added")

	got, err := s.Client.Get(ctx, f.DifferentCode)
	noTransportError(t, err)
	assert.Equal(t, http.StatusOK, got.Status, "new short code cannot be fetched")
	assert.True(t, got.Contains(f.DifferentCode), "response does not contain the new short code")
}

func rejectSameCodeDifferentURL(ctx context.Context, t TB, s *Session) {
	resp, err := s.Client.Create(ctx, shorturl.CreateRequest{URL: s.Fixtures.DifferentURL, ShortCode: s.Seed.Code})
	noTransportError(t, err)

	// The service stored our URL under the seed code.
	if resp.Status >= 200 && resp.Status < 300 {
		s.Created = append(s.Created, s.Seed.Code)
	}

	assert.Equal(t, http.StatusBadRequest, resp.Status, "status code is different")
	assert.True(t, resp.Contains(shorturl.MsgCodeExists), "error message is different")
}

func deleteCreated(ctx context.Context, t TB, s *Session) {
	code := s.Fixtures.UniqueCode

	resp, err := s.Client.Delete(ctx, code)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, "status code is different")

	s.Deleted = append(s.Deleted, code)

	msg, err := resp.DecodeMessage()
	noTransportError(t, err)

	assert.Contains(t, msg.Msg, code, "deleted short code is different")
}

func recordVisit(ctx context.Context, t TB, s *Session) {
	code := s.Seed.Code

	list, err := s.Client.List(ctx)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, list.Status, "status code is different")

	entries, err := list.DecodeEntries()
	noTransportError(t, err)

	entry, ok := shorturl.FindByShortURL(entries, code)
	require.True(t, ok, "seeded short code %q is not listed", code)

	before, err := entry.VisitCount()
	require.NoError(t, err)

	visit, err := s.Client.Visit(ctx, code)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, visit.Status, "visit was not recorded")

	got, err := s.Client.Get(ctx, code)
	noTransportError(t, err)
	require.Equal(t, http.StatusOK, got.Status, "status code is different")

	updated, err := got.DecodeEntry()
	noTransportError(t, err)

	after, err := updated.VisitCount()
	require.NoError(t, err)

	assert.Greater(t, after, before, "visits did not increase")
}
