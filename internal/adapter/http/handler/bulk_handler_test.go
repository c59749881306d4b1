package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/domain"
)

func TestBulkHandler_Update(t *testing.T) {
	api := newTestAPI(t)

	a := createEntry(t, api, "u1", boosterBox)
	b := createEntry(t, api, "u1", `{"product_name":"Sleeves","store_name":"CardShop","cost_per_item":5}`)
	foreign := createEntry(t, api, "u2", boosterBox)

	body := fmt.Sprintf(`{"entry_ids":[%q,%q,%q,"missing"],"update_data":{"status":"Delivered"}}`, a.ID, b.ID, foreign.ID)
	rr := doJSON(t, api, http.MethodPost, "/entries/bulk-update", "u1", body)
	expectStatus(t, rr, http.StatusOK)

	resp := decode[dto.BulkUpdateResponse](t, rr)
	if resp.UpdatedCount != 2 || len(resp.FailedIDs) != 2 {
		t.Fatalf("unexpected bulk result: %+v", resp)
	}
	if resp.FailedIDs[0] != foreign.ID || resp.FailedIDs[1] != "missing" {
		t.Fatalf("expected failures in request order, got %v", resp.FailedIDs)
	}
	if !strings.Contains(resp.Message, "2") {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	rr = doJSON(t, api, http.MethodGet, "/entries/"+b.ID, "u1", nil)
	if got := decode[dto.EntryResponse](t, rr); got.Status != domain.StatusDelivered {
		t.Fatalf("expected Delivered, got %s", got.Status)
	}

	rr = doJSON(t, api, http.MethodGet, "/entries/"+foreign.ID, "u2", nil)
	if got := decode[dto.EntryResponse](t, rr); got.Status != domain.StatusPending {
		t.Fatalf("foreign entry must be untouched, got %s", got.Status)
	}
}

func TestBulkHandler_UpdateRejectsInvalidPatch(t *testing.T) {
	api := newTestAPI(t)
	a := createEntry(t, api, "u1", boosterBox)

	tests := []struct {
		name string
		body string
	}{
		{"no ids", `{"entry_ids":[],"update_data":{"status":"Sold"}}`},
		{"empty update", fmt.Sprintf(`{"entry_ids":[%q],"update_data":{}}`, a.ID)},
		{"bad status", fmt.Sprintf(`{"entry_ids":[%q],"update_data":{"status":"Gone"}}`, a.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, doJSON(t, api, http.MethodPost, "/entries/bulk-update", "u1", tt.body), http.StatusBadRequest)
		})
	}
}

func TestBulkHandler_Delete(t *testing.T) {
	api := newTestAPI(t)

	a := createEntry(t, api, "u1", boosterBox)
	b := createEntry(t, api, "u1", boosterBox)

	body := fmt.Sprintf(`{"entry_ids":[%q,%q,%q]}`, a.ID, b.ID, a.ID)
	rr := doJSON(t, api, http.MethodPost, "/entries/bulk-delete", "u1", body)
	expectStatus(t, rr, http.StatusOK)

	resp := decode[dto.BulkDeleteResponse](t, rr)
	if resp.DeletedCount != 2 || len(resp.FailedIDs) != 1 || resp.FailedIDs[0] != a.ID {
		t.Fatalf("unexpected bulk delete result: %+v", resp)
	}

	rr = doJSON(t, api, http.MethodGet, "/entries/", "u1", nil)
	if page := decode[dto.EntryListResponse](t, rr); page.Total != 0 {
		t.Fatalf("expected no entries left, got %d", page.Total)
	}

	expectStatus(t, doJSON(t, api, http.MethodPost, "/entries/bulk-delete", "u1", `{"entry_ids":[]}`), http.StatusBadRequest)
}
