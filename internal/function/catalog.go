package function

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	bc "github.com/egobogo/trellofn/internal/board"
	trelloClient "github.com/egobogo/trellofn/internal/board/trello"
)

// Settings is the construction-time configuration of a Catalog.
type Settings struct {
	// Token is the Trello API key.
	Token string
	// TokenSecret is sent to Trello as the "token" credential, not an OAuth
	// secret.
	TokenSecret string
	// BoardID is the board ShowLists operates on.
	BoardID string
}

// Envelope is the plain-text response returned by every catalog operation.
type Envelope struct {
	Type string `json:"type"`
	Text string `json:"text"`

	result bc.Result
}

// Result returns the typed result the envelope text was rendered from.
func (e Envelope) Result() bc.Result {
	return e.result
}

func textEnvelope(res bc.Result) Envelope {
	data, err := json.Marshal(res)
	if err != nil {
		res = bc.Fail(bc.KindDecode, fmt.Sprintf("failed to encode result: %v", err))
		data, _ = json.Marshal(res)
	}
	return Envelope{Type: "text", Text: string(data), result: res}
}

// Catalog exposes Trello board operations as named functions.
type Catalog struct {
	gateway  bc.Gateway
	settings Settings
	logger   zerolog.Logger
}

// NewCatalog builds a Catalog on top of an existing gateway.
func NewCatalog(gw bc.Gateway, settings Settings) *Catalog {
	return &Catalog{gateway: gw, settings: settings, logger: zerolog.Nop()}
}

// NewTrelloCatalog builds a Catalog with a Trello gateway authenticated by the
// settings' Token (API key) and TokenSecret (token).
func NewTrelloCatalog(settings Settings, opts ...trelloClient.Option) *Catalog {
	gw := trelloClient.NewGateway(settings.Token, settings.TokenSecret, opts...)
	return NewCatalog(gw, settings)
}

// WithLogger sets the logger used by Call and returns the catalog.
func (c *Catalog) WithLogger(l zerolog.Logger) *Catalog {
	c.logger = l
	return c
}

// ShowLists lists all lists on the configured board.
func (c *Catalog) ShowLists(ctx context.Context) Envelope {
	endpoint := fmt.Sprintf("boards/%s/lists", url.PathEscape(c.settings.BoardID))
	return textEnvelope(c.gateway.Get(ctx, endpoint, nil))
}

// ListCards lists all cards in a list.
func (c *Catalog) ListCards(ctx context.Context, listID string) Envelope {
	endpoint := fmt.Sprintf("lists/%s/cards", url.PathEscape(listID))
	return textEnvelope(c.gateway.Get(ctx, endpoint, nil))
}

// MoveCard moves a card to another list.
func (c *Catalog) MoveCard(ctx context.Context, cardID, listID string) Envelope {
	return textEnvelope(c.gateway.Put(ctx, cardEndpoint(cardID), map[string]string{"idList": listID}))
}

// GetCard fetches a single card.
func (c *Catalog) GetCard(ctx context.Context, cardID string) Envelope {
	return textEnvelope(c.gateway.Get(ctx, cardEndpoint(cardID), nil))
}

// UpdateCard sends data to the card unchanged.
func (c *Catalog) UpdateCard(ctx context.Context, cardID string, data map[string]any) Envelope {
	return textEnvelope(c.gateway.Put(ctx, cardEndpoint(cardID), formParams(data)))
}

// CreateCard creates a card in listID. The idList field always comes from
// listID, even if data carries one.
func (c *Catalog) CreateCard(ctx context.Context, listID string, data map[string]any) Envelope {
	params := formParams(data)
	params["idList"] = listID
	return textEnvelope(c.gateway.Post(ctx, "cards", params))
}

func cardEndpoint(cardID string) string {
	return "cards/" + url.PathEscape(cardID)
}

// formParams flattens caller data into form values. Strings pass through,
// nil becomes empty, everything else is JSON encoded (true, 3, ["a"]).
func formParams(data map[string]any) map[string]string {
	params := make(map[string]string, len(data)+1)
	for k, v := range data {
		switch v := v.(type) {
		case string:
			params[k] = v
		case nil:
			params[k] = ""
		default:
			b, err := json.Marshal(v)
			if err != nil {
				params[k] = fmt.Sprint(v)
				continue
			}
			params[k] = string(b)
		}
	}
	return params
}
