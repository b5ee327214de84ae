package eventlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/catalogd/backend/domain"
)

// envelope is the persisted wire format: a tagged record whose payload is
// decoded according to the kind. Payloads are self-contained so replay never
// needs to resolve anything by reference.
type envelope struct {
	Kind       domain.Kind     `json:"kind"`
	ProductID  uint64          `json:"product_id"`
	Seq        uint64          `json:"seq"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func encode(seq uint64, evt domain.Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "marshal event payload", err)
	}
	return json.Marshal(envelope{
		Kind:       evt.Kind(),
		ProductID:  evt.Subject(),
		Seq:        seq,
		OccurredAt: evt.Time(),
		Payload:    payload,
	})
}

func decode(data []byte) (domain.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "corrupt event record", err)
	}

	switch env.Kind {
	case domain.KindProductCreated:
		var e domain.ProductCreated
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, decodeErr(env.Kind, err)
		}
		return e, nil
	case domain.KindStockAdjusted:
		var e domain.StockAdjusted
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, decodeErr(env.Kind, err)
		}
		return e, nil
	case domain.KindPriceChanged:
		var e domain.PriceChanged
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, decodeErr(env.Kind, err)
		}
		return e, nil
	case domain.KindProductViewed:
		var e domain.ProductViewed
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, decodeErr(env.Kind, err)
		}
		return e, nil
	default:
		return nil, domain.NewError(domain.ErrCodeSchema, fmt.Sprintf("unknown event kind %q", env.Kind))
	}
}

func decodeErr(kind domain.Kind, err error) error {
	return domain.WrapError(domain.ErrCodeStorage, fmt.Sprintf("decode %s payload", kind), err)
}
