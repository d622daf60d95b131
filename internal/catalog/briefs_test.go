package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

func TestResolveBriefsDropsUnresolvableIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/games/"), 10, 64)
		if err != nil || id == 404 {
			http.Error(w, "missing", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"id":%d,"name":"Game %d","slug":"game-%d"}`, id, id, id)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}

	briefs := client.ResolveBriefs(context.Background(), []int64{1, 404, 2})
	if len(briefs) != 2 {
		t.Fatalf("expected two resolved briefs, got %d", len(briefs))
	}
	if _, ok := briefs[404]; ok {
		t.Fatalf("unresolvable id must be absent from the map")
	}
	if briefs[1].Name != "Game 1" || briefs[2].Slug != "game-2" {
		t.Fatalf("unexpected briefs %#v", briefs)
	}
}

func TestResolveBriefsCollapsesDuplicates(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"id":9,"name":"Only","slug":"only"}`)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}

	briefs := client.ResolveBriefs(context.Background(), []int64{9, 9, 9})
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected one backend request for duplicate ids, got %d", got)
	}
	if len(briefs) != 1 {
		t.Fatalf("expected one brief, got %d", len(briefs))
	}
}

func TestResolveBriefsEmptyInput(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://unused.invalid"})
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}
	briefs := client.ResolveBriefs(context.Background(), nil)
	if briefs == nil || len(briefs) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", briefs)
	}
}
