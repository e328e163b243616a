package utils

import (
	"encoding/hex"
	"errors"
	"eventgo/src/models"
	"eventgo/src/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTicketCodeRoundTrip(t *testing.T) {
	ticket := models.Ticket{
		ID:      uuid.New(),
		EventID: 42,
	}
	code, err := EncodeTicketCode(&ticket)
	assert.Nil(t, err)
	assert.NotEmpty(t, code)

	id, err := DecodeTicketCode(code)
	assert.Nil(t, err)
	assert.Equal(t, ticket.ID, id)
}

func TestTicketCodeIsOpaque(t *testing.T) {
	ticket := models.Ticket{
		ID:      uuid.New(),
		EventID: 7,
	}
	code, err := EncodeTicketCode(&ticket)
	assert.Nil(t, err)
	assert.NotContains(t, code, ticket.ID.String())

	// Same ticket never seals to the same bytes twice.
	again, err := EncodeTicketCode(&ticket)
	assert.Nil(t, err)
	assert.NotEqual(t, code, again)
}

func TestDecodeTicketCodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"not-hex-at-all",
		"deadbeef",
		hex.EncodeToString([]byte("hex but not a sealed payload")),
	} {
		_, err := DecodeTicketCode(raw)
		assert.Truef(t, errors.Is(err, types.ErrMalformedCode), "expected malformed code for %q, got %v", raw, err)
	}
}

func TestDecodeTicketCodeRejectsTampered(t *testing.T) {
	ticket := models.Ticket{ID: uuid.New(), EventID: 1}
	code, err := EncodeTicketCode(&ticket)
	assert.Nil(t, err)

	raw, err := hex.DecodeString(code)
	assert.Nil(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = DecodeTicketCode(hex.EncodeToString(raw))
	assert.True(t, errors.Is(err, types.ErrMalformedCode))

	// Truncation is rejected too, not a panic.
	_, err = DecodeTicketCode(code[:8])
	assert.True(t, errors.Is(err, types.ErrMalformedCode))
}

func TestEncryptDecryptMessage(t *testing.T) {
	key, err := codeKey()
	assert.Nil(t, err)

	sealed, err := EncryptMessage(key, "hello world")
	assert.Nil(t, err)
	opened, err := DecryptMessage(key, sealed)
	assert.Nil(t, err)
	assert.Equal(t, "hello world", *opened)
}
