package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"eventgo/src/models"
	"eventgo/src/types"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/yeqown/go-qrcode"
)

// The scannable code is the ticket's identity (plus its event id) sealed with
// AES-GCM and hex encoded. Only write-once fields go in, so a code printed at
// issuance stays valid for the ticket's whole life.

func codeKey() ([]byte, error) {
	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, errors.New("API_QRC_SECRET is not set")
	}
	return key, nil
}

func EncodeTicketCode(ticket *models.Ticket) (string, error) {
	rawData := map[string]any{
		"ticketId": ticket.ID.String(),
		"eventId":  ticket.EventID,
	}
	rawBytes, err := json.Marshal(rawData)
	if err != nil {
		return "", err
	}
	key, err := codeKey()
	if err != nil {
		return "", err
	}
	return EncryptMessage(key, string(rawBytes))
}

// DecodeTicketCode rejects anything that is not a well-formed sealed payload
// with ErrMalformedCode, so callers can tell "not a ticket code" from
// "unknown ticket". Key misconfiguration is returned as-is and is fatal.
func DecodeTicketCode(code string) (uuid.UUID, error) {
	key, err := codeKey()
	if err != nil {
		return uuid.Nil, err
	}
	message, err := DecryptMessage(key, code)
	if err != nil {
		return uuid.Nil, types.ErrMalformedCode
	}
	if !gjson.Valid(*message) {
		return uuid.Nil, types.ErrMalformedCode
	}
	ticketId := gjson.Get(*message, "ticketId").String()
	id, err := uuid.Parse(ticketId)
	if err != nil {
		return uuid.Nil, types.ErrMalformedCode
	}
	return id, nil
}

// TicketCodeImage renders the sealed code as a QR image at filepath.
func TicketCodeImage(code string, filepath string) error {
	qrc, err := qrcode.New(code)
	if err != nil {
		return err
	}
	return qrc.Save(filepath)
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, errors.New("cipher text is truncated")
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
