package satvach

import (
	"context"
	"time"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
	"github.com/kailas-cloud/satvach/internal/domain/search/request"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/satvach/internal/usecase/health"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLocation(id int64, title string, status domloc.Status) domloc.Location {
	return domloc.Reconstruct(id, domloc.Draft{
		Title:     title,
		Category:  domloc.Cafe,
		Latitude:  40.7128,
		Longitude: -74.0060,
		OwnerID:   "owner-1",
	}, status, testNow, testNow)
}

// --- locationUseCase mock ---

type mockLocationUC struct {
	submitFn    func(ctx context.Context, d domloc.Draft, actor dommod.Actor) (domloc.Location, error)
	getFn       func(ctx context.Context, id int64, includeUnapproved bool) (domloc.Location, error)
	updateFn    func(ctx context.Context, id int64, p domloc.Patch, actor dommod.Actor) (domloc.Location, error)
	setStatusFn func(ctx context.Context, id int64, st domloc.Status, reason string, actor dommod.Actor) (domloc.Location, error)
	deleteFn    func(ctx context.Context, id int64, actor dommod.Actor) error
	listFn      func(ctx context.Context, st domloc.Status, skip, limit int) ([]domloc.Location, int, error)
	statsFn     func(ctx context.Context) (map[domloc.Status]int, error)
	historyFn   func(ctx context.Context, id int64) ([]dommod.Entry, error)
}

func (m *mockLocationUC) Submit(ctx context.Context, d domloc.Draft, actor dommod.Actor) (domloc.Location, error) {
	return m.submitFn(ctx, d, actor)
}

func (m *mockLocationUC) Get(ctx context.Context, id int64, includeUnapproved bool) (domloc.Location, error) {
	return m.getFn(ctx, id, includeUnapproved)
}

func (m *mockLocationUC) Update(
	ctx context.Context, id int64, p domloc.Patch, actor dommod.Actor,
) (domloc.Location, error) {
	return m.updateFn(ctx, id, p, actor)
}

func (m *mockLocationUC) SetStatus(
	ctx context.Context, id int64, st domloc.Status, reason string, actor dommod.Actor,
) (domloc.Location, error) {
	return m.setStatusFn(ctx, id, st, reason, actor)
}

func (m *mockLocationUC) Delete(ctx context.Context, id int64, actor dommod.Actor) error {
	return m.deleteFn(ctx, id, actor)
}

func (m *mockLocationUC) List(
	ctx context.Context, st domloc.Status, skip, limit int,
) ([]domloc.Location, int, error) {
	return m.listFn(ctx, st, skip, limit)
}

func (m *mockLocationUC) Stats(ctx context.Context) (map[domloc.Status]int, error) {
	return m.statsFn(ctx)
}

func (m *mockLocationUC) History(ctx context.Context, id int64) ([]dommod.Entry, error) {
	return m.historyFn(ctx, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn   func(ctx context.Context, req *request.RadiusRequest) (result.Page, error)
	viewportFn func(ctx context.Context, req *request.ViewportRequest) ([]domloc.Location, error)
	nearbyFn   func(ctx context.Context, req *request.NearbyRequest) ([]result.Hit, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.RadiusRequest) (result.Page, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) SearchViewport(ctx context.Context, req *request.ViewportRequest) ([]domloc.Location, error) {
	return m.viewportFn(ctx, req)
}

func (m *mockSearchUC) SearchRadius(ctx context.Context, req *request.NearbyRequest) ([]result.Hit, error) {
	return m.nearbyFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
