package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/cloud"
	"github.com/verte-zerg/typemaster/internal/model"
)

type memBackend struct {
	entries []model.HistoryEntry
}

func (m *memBackend) LoadHistory(context.Context) ([]model.HistoryEntry, error) {
	return append([]model.HistoryEntry(nil), m.entries...), nil
}

func (m *memBackend) SaveHistory(_ context.Context, entries []model.HistoryEntry) error {
	m.entries = append([]model.HistoryEntry(nil), entries...)
	return nil
}

type memRemote struct {
	lists   map[string][]model.HistoryEntry
	deleted []string
	err     error
}

func newMemRemote() *memRemote { return &memRemote{lists: map[string][]model.HistoryEntry{}} }

func (r *memRemote) Fetch(_ context.Context, user string) ([]model.HistoryEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]model.HistoryEntry(nil), r.lists[user]...), nil
}

func (r *memRemote) Put(_ context.Context, user string, entry model.HistoryEntry) error {
	if r.err != nil {
		return r.err
	}
	r.lists[user] = append([]model.HistoryEntry{entry}, r.lists[user]...)
	return nil
}

func (r *memRemote) Delete(_ context.Context, user, id string) error {
	r.deleted = append(r.deleted, user+"/"+id)
	return r.err
}

func newTestService(backend Backend) *Service {
	svc := NewService(backend, nil)
	clock := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc
}

func TestAddDedupesAndOrders(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memBackend{})

	if _, err := svc.Add(ctx, "Go", model.FormatParagraph); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "rust", model.FormatParagraph); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "go", model.FormatStory); err != nil {
		t.Fatalf("Add: %v", err)
	}
	list, err := svc.Add(ctx, "  GO ", model.FormatParagraph)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %+v", list)
	}
	if list[0].Topic != "GO" || list[0].Format != model.FormatParagraph {
		t.Fatalf("newest entry should be first and trimmed: %+v", list[0])
	}
	if list[1].Topic != "go" || list[1].Format != model.FormatStory {
		t.Fatalf("different format must be kept: %+v", list[1])
	}
}

func TestAddBlankTopicIsNoop(t *testing.T) {
	backend := &memBackend{}
	svc := newTestService(backend)
	list, err := svc.Add(context.Background(), "   ", model.FormatParagraph)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(list) != 0 || len(backend.entries) != 0 {
		t.Fatalf("blank topic should not be stored")
	}
}

func TestAddCapsList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memBackend{})
	var list []model.HistoryEntry
	var err error
	for i := 0; i < MaxEntries+3; i++ {
		list, err = svc.Add(ctx, fmt.Sprintf("topic %d", i), model.FormatParagraph)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if len(list) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(list))
	}
	if list[0].Topic != fmt.Sprintf("topic %d", MaxEntries+2) {
		t.Fatalf("unexpected head %q", list[0].Topic)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memBackend{})
	remote := newMemRemote()
	svc.Connect(remote, "alice")

	list, _ := svc.Add(ctx, "a", model.FormatParagraph)
	_, _ = svc.Add(ctx, "b", model.FormatParagraph)
	list, err := svc.Delete(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(list) != 1 || list[0].Topic != "b" {
		t.Fatalf("unexpected list %+v", list)
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != "alice/id-1" {
		t.Fatalf("delete not mirrored: %v", remote.deleted)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if list, _ := svc.List(ctx); len(list) != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestAddMirrorsAndToleratesRemoteFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memBackend{})
	remote := newMemRemote()
	svc.Connect(remote, "alice")

	if _, err := svc.Add(ctx, "go", model.FormatParagraph); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(remote.lists["alice"]) != 1 {
		t.Fatalf("entry not uploaded")
	}

	remote.err = errors.New("offline")
	list, err := svc.Add(ctx, "rust", model.FormatParagraph)
	if err != nil {
		t.Fatalf("remote failure must not fail Add: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("local list should still update")
	}
}

func TestSyncMerges(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	backend := &memBackend{entries: []model.HistoryEntry{
		{ID: "l1", Topic: "go", Format: model.FormatParagraph, CreatedAt: base.Add(3 * time.Second)},
		{ID: "l2", Topic: "cats", Format: model.FormatStory, CreatedAt: base.Add(time.Second)},
	}}
	remote := newMemRemote()
	remote.lists["alice"] = []model.HistoryEntry{
		{ID: "r1", Topic: "GO", Format: model.FormatParagraph, CreatedAt: base.Add(2 * time.Second)},
		{ID: "r2", Topic: "space", Format: model.FormatAbstract, CreatedAt: base.Add(4 * time.Second)},
	}
	svc := newTestService(backend)
	svc.Connect(remote, "alice")

	merged, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	var ids []string
	for _, e := range merged {
		ids = append(ids, e.ID)
	}
	if fmt.Sprint(ids) != "[r2 l1 l2]" {
		t.Fatalf("unexpected merge order %v", ids)
	}
	if len(backend.entries) != 3 {
		t.Fatalf("merge not saved locally")
	}
	uploaded := map[string]bool{}
	for _, e := range remote.lists["alice"] {
		uploaded[e.ID] = true
	}
	if !uploaded["l1"] || !uploaded["l2"] {
		t.Fatalf("local entries not uploaded: %+v", remote.lists["alice"])
	}
}

func TestSyncRequiresConnection(t *testing.T) {
	svc := newTestService(&memBackend{})
	if _, err := svc.Sync(context.Background()); !errors.Is(err, cloud.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if svc.User() != "" {
		t.Fatalf("expected no user")
	}
}
