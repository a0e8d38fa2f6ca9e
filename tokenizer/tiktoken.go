package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/contextkit/contextkit/types"
)

// DefaultEncoding is the BPE encoding used when no model is specified.
// cl100k_base is a good approximation across current chat models.
const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts tokens with a real BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter using the default encoding.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	return NewTiktokenCounterWithEncoding(DefaultEncoding)
}

// NewTiktokenCounterWithEncoding creates a counter using the named encoding.
func NewTiktokenCounterWithEncoding(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// NewTiktokenCounterForModel creates a counter using the encoding of the
// named model.
func NewTiktokenCounterForModel(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: encoding for model %q: %w", model, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountMessages returns the wire-format token count of a conversation.
func (c *TiktokenCounter) CountMessages(messages []types.Message) int {
	return ConversationTokens(c, messages)
}
