package function

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownFunction is returned by Call for names outside the catalog.
var ErrUnknownFunction = errors.New("unknown function")

// callArgs is the union of every function's arguments.
type callArgs struct {
	ListID string         `json:"listId"`
	CardID string         `json:"cardId"`
	Data   map[string]any `json:"data"`
}

// Call invokes the named function with a JSON object of arguments. The error
// is only non-nil for caller mistakes: an unknown name or undecodable
// arguments. Trello failures are reported inside the envelope.
func (c *Catalog) Call(ctx context.Context, name string, args json.RawMessage) (Envelope, error) {
	callID := uuid.NewString()
	logger := c.logger.With().Str("call_id", callID).Str("function", name).Logger()

	if !known(name) {
		logger.Error().Msg("unknown function")
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	var a callArgs
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &a); err != nil {
			logger.Error().Err(err).Msg("invalid arguments")
			return Envelope{}, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
	}

	start := time.Now()
	var env Envelope
	switch name {
	case ShowLists:
		env = c.ShowLists(ctx)
	case ListCards:
		env = c.ListCards(ctx, a.ListID)
	case MoveCard:
		env = c.MoveCard(ctx, a.CardID, a.ListID)
	case GetCard:
		env = c.GetCard(ctx, a.CardID)
	case UpdateCard:
		env = c.UpdateCard(ctx, a.CardID, a.Data)
	case CreateCard:
		env = c.CreateCard(ctx, a.ListID, a.Data)
	}

	if res := env.Result(); res.Failed() {
		logger.Warn().Str("kind", string(res.Err.Kind)).Dur("took", time.Since(start)).Msg("function failed")
	} else {
		logger.Info().Dur("took", time.Since(start)).Msg("function completed")
	}
	return env, nil
}

func known(name string) bool {
	for _, d := range Definitions() {
		if d.Name == name {
			return true
		}
	}
	return false
}
