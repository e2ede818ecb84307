package encryption

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"secupload/internal/upload"
)

// testHeader prefixes TestEncryptor output.
var testHeader = []byte("SUENC\x00\x00\x00")

// testMask is XORed over every payload byte so sealed content never
// contains the plaintext.
const testMask byte = 0x5A

// TestEncryptor is a deterministic, crypto-free Encryptor for tests. It is
// configured from the start. Unlock refuses the empty passphrase, and once
// Setup has run it only accepts the passphrase given to Setup.
type TestEncryptor struct {
	passphrase string
}

var _ upload.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	return mask(r, w)
}

func (e *TestEncryptor) Unlock(passphrase string) (upload.DecryptionContext, error) {
	if passphrase == "" || (e.passphrase != "" && passphrase != e.passphrase) {
		return nil, ErrWrongPassphrase
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext reverses TestEncryptor.Encrypt.
type TestDecryptionContext struct{}

var _ upload.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	return mask(r, w)
}

func mask(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading data: %w", err)
		}
		if err := bw.WriteByte(b ^ testMask); err != nil {
			return fmt.Errorf("writing data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}
	return nil
}
