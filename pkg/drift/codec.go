package drift

import (
	"encoding/json"
	"fmt"

	"github.com/josephjohncox/driftline/pkg/catalog"
)

// envelope is the kind-tagged wire form shared by all event variants.
type envelope struct {
	Kind   Kind              `json:"kind" yaml:"kind"`
	Table  TableID           `json:"table" yaml:"table"`
	To     string            `json:"to,omitempty" yaml:"to,omitempty"`
	Name   string            `json:"name,omitempty" yaml:"name,omitempty"`
	From   string            `json:"from,omitempty" yaml:"from,omitempty"`
	Column *catalog.Column   `json:"column,omitempty" yaml:"column,omitempty"`
	First  bool              `json:"first,omitempty" yaml:"first,omitempty"`
	After  string            `json:"after,omitempty" yaml:"after,omitempty"`
	Events []json.RawMessage `json:"events,omitempty" yaml:"events,omitempty"`
}

// Encode serializes an event as a kind-tagged JSON envelope.
func Encode(event Event) ([]byte, error) {
	env, err := toEnvelope(event)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Kind(), err)
	}
	return payload, nil
}

// Decode parses a kind-tagged JSON envelope back into an event. An unknown
// kind fails with ErrUnsupportedEvent so callers can skip events from newer
// producers explicitly.
func Decode(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return fromEnvelope(env)
}

func toEnvelope(event Event) (envelope, error) {
	switch e := event.(type) {
	case RenameTable:
		return envelope{Kind: KindRenameTable, Table: e.TableID, To: e.To}, nil
	case DropColumn:
		return envelope{Kind: KindDropColumn, Table: e.TableID, Name: e.Name}, nil
	case AddColumn:
		column := e.Column
		return envelope{Kind: KindAddColumn, Table: e.TableID, Column: &column, First: e.First, After: e.After}, nil
	case ModifyColumn:
		column := e.Column
		return envelope{Kind: KindModifyColumn, Table: e.TableID, Column: &column, First: e.First, After: e.After}, nil
	case ChangeColumn:
		column := e.Column
		return envelope{Kind: KindChangeColumn, Table: e.TableID, From: e.From, Column: &column, First: e.First, After: e.After}, nil
	case Batch:
		members := make([]json.RawMessage, 0, len(e.Events))
		for _, member := range e.Events {
			raw, err := Encode(member)
			if err != nil {
				return envelope{}, err
			}
			members = append(members, raw)
		}
		return envelope{Kind: KindBatch, Table: e.TableID, Events: members}, nil
	default:
		return envelope{}, &UnsupportedEventError{Event: event}
	}
}

func fromEnvelope(env envelope) (Event, error) {
	switch env.Kind {
	case KindRenameTable:
		return RenameTable{TableID: env.Table, To: env.To}, nil
	case KindDropColumn:
		return DropColumn{TableID: env.Table, Name: env.Name}, nil
	case KindAddColumn:
		if env.Column == nil {
			return nil, fmt.Errorf("decode add_column event for %s: missing column", env.Table)
		}
		return AddColumn{TableID: env.Table, Column: *env.Column, First: env.First, After: env.After}, nil
	case KindModifyColumn:
		if env.Column == nil {
			return nil, fmt.Errorf("decode modify_column event for %s: missing column", env.Table)
		}
		return ModifyColumn{TableID: env.Table, Column: *env.Column, First: env.First, After: env.After}, nil
	case KindChangeColumn:
		if env.Column == nil {
			return nil, fmt.Errorf("decode change_column event for %s: missing column", env.Table)
		}
		return ChangeColumn{TableID: env.Table, From: env.From, Column: *env.Column, First: env.First, After: env.After}, nil
	case KindBatch:
		members := make([]ColumnEvent, 0, len(env.Events))
		for _, raw := range env.Events {
			member, err := Decode(raw)
			if err != nil {
				return nil, err
			}
			columnEvent, ok := member.(ColumnEvent)
			if !ok {
				return nil, fmt.Errorf("decode batch for %s: %s events cannot nest in a batch", env.Table, member.Kind())
			}
			members = append(members, columnEvent)
		}
		return Batch{TableID: env.Table, Events: members}, nil
	default:
		return nil, fmt.Errorf("decode event for %s: kind %q: %w", env.Table, env.Kind, ErrUnsupportedEvent)
	}
}
