package function

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	bc "github.com/egobogo/trellofn/internal/board"
	trelloClient "github.com/egobogo/trellofn/internal/board/trello"
)

type recordedCall struct {
	method   string
	endpoint string
	params   map[string]string
}

// fakeGateway records calls and answers with a fixed result.
type fakeGateway struct {
	calls  []recordedCall
	result bc.Result
}

func (f *fakeGateway) record(method, endpoint string, params map[string]string) bc.Result {
	f.calls = append(f.calls, recordedCall{method, endpoint, params})
	return f.result
}

func (f *fakeGateway) Get(_ context.Context, endpoint string, params map[string]string) bc.Result {
	return f.record(http.MethodGet, endpoint, params)
}

func (f *fakeGateway) Post(_ context.Context, endpoint string, params map[string]string) bc.Result {
	return f.record(http.MethodPost, endpoint, params)
}

func (f *fakeGateway) Put(_ context.Context, endpoint string, params map[string]string) bc.Result {
	return f.record(http.MethodPut, endpoint, params)
}

func (f *fakeGateway) last(t *testing.T) recordedCall {
	t.Helper()
	if len(f.calls) != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", len(f.calls))
	}
	return f.calls[0]
}

func newFakeCatalog() (*Catalog, *fakeGateway) {
	gw := &fakeGateway{result: bc.Ok(map[string]any{"id": "x"})}
	return NewCatalog(gw, Settings{Token: "k", TokenSecret: "t", BoardID: "board1"}), gw
}

func TestCatalogOperations(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		invoke func(c *Catalog) Envelope
		want   recordedCall
	}{
		{
			name:   "showLists",
			invoke: func(c *Catalog) Envelope { return c.ShowLists(ctx) },
			want:   recordedCall{http.MethodGet, "boards/board1/lists", nil},
		},
		{
			name:   "listCards",
			invoke: func(c *Catalog) Envelope { return c.ListCards(ctx, "list1") },
			want:   recordedCall{http.MethodGet, "lists/list1/cards", nil},
		},
		{
			name:   "listCards escapes id",
			invoke: func(c *Catalog) Envelope { return c.ListCards(ctx, "a/b c?") },
			want:   recordedCall{http.MethodGet, "lists/a%2Fb%20c%3F/cards", nil},
		},
		{
			name:   "moveCard",
			invoke: func(c *Catalog) Envelope { return c.MoveCard(ctx, "card1", "list2") },
			want:   recordedCall{http.MethodPut, "cards/card1", map[string]string{"idList": "list2"}},
		},
		{
			name:   "getCard",
			invoke: func(c *Catalog) Envelope { return c.GetCard(ctx, "card1") },
			want:   recordedCall{http.MethodGet, "cards/card1", nil},
		},
		{
			name: "updateCard",
			invoke: func(c *Catalog) Envelope {
				return c.UpdateCard(ctx, "card1", map[string]any{"name": "N", "desc": "D", "closed": true})
			},
			want: recordedCall{http.MethodPut, "cards/card1", map[string]string{"name": "N", "desc": "D", "closed": "true"}},
		},
		{
			name: "createCard",
			invoke: func(c *Catalog) Envelope {
				return c.CreateCard(ctx, "list1", map[string]any{"name": "A", "desc": "B"})
			},
			want: recordedCall{http.MethodPost, "cards", map[string]string{"name": "A", "desc": "B", "idList": "list1"}},
		},
		{
			name: "createCard idList wins",
			invoke: func(c *Catalog) Envelope {
				return c.CreateCard(ctx, "list1", map[string]any{"name": "A", "idList": "other"})
			},
			want: recordedCall{http.MethodPost, "cards", map[string]string{"name": "A", "idList": "list1"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, gw := newFakeCatalog()
			env := tc.invoke(c)

			got := gw.last(t)
			if got.method != tc.want.method || got.endpoint != tc.want.endpoint {
				t.Errorf("call = %s %s, want %s %s", got.method, got.endpoint, tc.want.method, tc.want.endpoint)
			}
			if len(got.params) != 0 || len(tc.want.params) != 0 {
				if !reflect.DeepEqual(got.params, tc.want.params) {
					t.Errorf("params = %v, want %v", got.params, tc.want.params)
				}
			}
			if env.Type != "text" || env.Text != `{"id":"x"}` {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestCatalogEnvelopeCarriesError(t *testing.T) {
	c, gw := newFakeCatalog()
	gw.result = bc.Fail(bc.KindNotFound, "card not found")

	env := c.GetCard(context.Background(), "missing")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(env.Text), &decoded); err != nil {
		t.Fatalf("envelope text is not JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, map[string]any{"error": "card not found"}) {
		t.Errorf("decoded = %v", decoded)
	}
	if res := env.Result(); res.Err == nil || res.Err.Kind != bc.KindNotFound {
		t.Errorf("typed result = %+v, want not_found", res.Err)
	}
}

func TestCatalogTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewTrelloCatalog(Settings{Token: "k", TokenSecret: "t", BoardID: "b"}, trelloClient.WithBaseURL(base))
	ctx := context.Background()
	envelopes := map[string]Envelope{
		ShowLists:  c.ShowLists(ctx),
		ListCards:  c.ListCards(ctx, "l"),
		MoveCard:   c.MoveCard(ctx, "c", "l"),
		GetCard:    c.GetCard(ctx, "c"),
		UpdateCard: c.UpdateCard(ctx, "c", map[string]any{"name": "n"}),
		CreateCard: c.CreateCard(ctx, "l", map[string]any{"name": "n"}),
	}
	for name, env := range envelopes {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(env.Text), &decoded); err != nil {
			t.Errorf("%s: envelope text is not JSON: %v", name, err)
			continue
		}
		msg, ok := decoded["error"].(string)
		if !ok || msg == "" || len(decoded) != 1 {
			t.Errorf("%s: decoded = %v, want {error: <message>}", name, decoded)
		}
	}
}

func TestCatalogAgainstServer(t *testing.T) {
	var gotPath, gotKey, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotKey = r.URL.Query().Get("key")
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`[{"id":"c1","name":"Card"}]`))
	}))
	defer srv.Close()

	c := NewTrelloCatalog(Settings{Token: "api-key", TokenSecret: "secret", BoardID: "b"}, trelloClient.WithBaseURL(srv.URL))
	env := c.ListCards(context.Background(), "l/1")

	if gotPath != "/lists/l%2F1/cards" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "api-key" || gotToken != "secret" {
		t.Errorf("credentials = %q/%q, want api-key/secret", gotKey, gotToken)
	}
	if env.Text != `[{"id":"c1","name":"Card"}]` {
		t.Errorf("text = %s", env.Text)
	}
}
