package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// MaskAccountNumber hides all but the last four digits of an account number
// for logs and audit records.
func MaskAccountNumber(account string) string {
	if len(account) < 4 {
		if account == "" {
			return ""
		}
		return "****"
	}
	return "****" + account[len(account)-4:]
}

// TransactionHash computes a deterministic SHA-256 digest over the identifying
// fields of a transaction, used to verify integrity of audit trails.
func TransactionHash(tx *Transaction) string {
	canonical := struct {
		ID          string `json:"transaction_id"`
		Amount      string `json:"amount"`
		FromAccount string `json:"from_account"`
		ToAccount   string `json:"to_account"`
		Timestamp   int64  `json:"timestamp"`
		UserID      string `json:"user_id"`
	}{
		ID:          tx.ID,
		Amount:      tx.Amount.String(),
		FromAccount: tx.FromAccount,
		ToAccount:   tx.ToAccount,
		Timestamp:   tx.Timestamp,
		UserID:      tx.UserID,
	}

	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyTransactionHash checks a transaction against an expected digest in
// constant time.
func VerifyTransactionHash(tx *Transaction, expected string) bool {
	return hmac.Equal([]byte(TransactionHash(tx)), []byte(expected))
}

// EncodeSensitive is a placeholder for field-level encryption. It only
// base64-encodes the value; real key management is out of scope.
func EncodeSensitive(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(value))
}

// DecodeSensitive reverses EncodeSensitive.
func DecodeSensitive(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
