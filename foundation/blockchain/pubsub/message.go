package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Channel identifies the kind of payload a message carries.
type Channel string

// Set of channels carried by the bus.
const (
	ChannelBlockchain  Channel = "BLOCKCHAIN"
	ChannelTransaction Channel = "TRANSACTION"
)

// Message is the envelope shared between nodes. The payload is decoded
// based on the channel.
type Message struct {
	Channel Channel         `json:"channel" validate:"required,oneof=BLOCKCHAIN TRANSACTION"`
	Origin  string          `json:"origin" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ChainUpdate is the payload of the BLOCKCHAIN channel.
type ChainUpdate struct {
	Chain []database.Block `json:"chain" validate:"required,min=1"`
}

// TransactionSubmit is the payload of the TRANSACTION channel.
type TransactionSubmit struct {
	Transaction *database.Transaction `json:"transaction" validate:"required"`
}

// NewMessage constructs a message for the channel from the specified origin.
func NewMessage(channel Channel, origin string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal payload: %w", err)
	}

	msg := Message{
		Channel: channel,
		Origin:  origin,
		Payload: data,
	}

	return msg, nil
}

// ParsePayload strictly decodes the payload into the provided value and
// validates it.
func (m Message) ParsePayload(val any) error {
	decoder := json.NewDecoder(bytes.NewReader(m.Payload))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("%w: decode %s payload: %s", database.ErrValidation, m.Channel, err)
	}

	return validate.Check(val)
}
