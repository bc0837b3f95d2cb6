// Package passwdfile reads and writes the VNC password file.
//
// The file is one encrypted 8-byte slot for the full-control password,
// optionally followed by a second slot for the view-only password. Each
// slot is encrypted on its own with vncauth. A file with no second slot
// has no view-only password.
package passwdfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benaskins/vncpasswd/internal/credential"
	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/secret"
	"github.com/benaskins/vncpasswd/internal/securedir"
	"github.com/benaskins/vncpasswd/internal/vncauth"
)

const (
	slot = vncauth.BlockSize

	// StreamPath names standard input/output instead of a file.
	StreamPath = "-"
)

// Encode encrypts primary and, if non-nil, secondary into a password file
// image. The caller must Close the result.
func Encode(primary, secondary *credential.Credential) (*secret.Buffer, error) {
	if primary == nil {
		return nil, fmt.Errorf("passwdfile: a full-control password is required")
	}
	size := slot
	if secondary != nil {
		size = 2 * slot
	}
	blob, err := secret.New(size)
	if err != nil {
		return nil, err
	}
	if err := vncauth.Encrypt(blob.Bytes()[:slot], primary.Bytes()); err != nil {
		blob.Close()
		return nil, err
	}
	if secondary != nil {
		if err := vncauth.Encrypt(blob.Bytes()[slot:], secondary.Bytes()); err != nil {
			blob.Close()
			return nil, err
		}
	}
	return blob, nil
}

// Write encrypts the pair and writes it to w.
func Write(w io.Writer, pair *credential.Pair) error {
	blob, err := Encode(pair.Primary, pair.Secondary)
	if err != nil {
		return errs.IO(err, "Cannot encrypt password")
	}
	defer blob.Close()

	if _, err := w.Write(blob.Bytes()); err != nil {
		return errs.IO(err, "Cannot write password")
	}
	return nil
}

// Persist encrypts the pair and writes it to path with owner-only
// permissions. The file is replaced atomically. Stream output is not a file
// target; use Write for that.
func Persist(path string, pair *credential.Pair) error {
	if path == StreamPath || path == "" {
		return errs.Usagef("password file path %q is not a file", path)
	}

	blob, err := Encode(pair.Primary, pair.Secondary)
	if err != nil {
		return errs.IO(err, "Cannot encrypt password for %s", path)
	}
	defer blob.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errs.IO(err, "Cannot write password file %s", path)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, blob.Bytes()); err != nil {
		os.Remove(tmpPath)
		return errs.IO(err, "Cannot write password file %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errs.IO(err, "Cannot write password file %s", path)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if err := f.Chmod(securedir.File); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode decrypts a password file image. secondary is nil when the image
// has no view-only slot or an empty one. The caller must Close both.
func Decode(data []byte) (primary, secondary *credential.Credential, err error) {
	if len(data) < slot {
		return nil, nil, fmt.Errorf("passwdfile: %d bytes is too short for a password file", len(data))
	}

	primary, err = decodeSlot(data[:slot])
	if err != nil {
		return nil, nil, err
	}
	if len(data) < 2*slot {
		return primary, nil, nil
	}
	secondary, err = decodeSlot(data[slot : 2*slot])
	if err != nil {
		primary.Close()
		return nil, nil, err
	}
	if secondary.Len() == 0 {
		secondary.Close()
		return primary, nil, nil
	}
	return primary, secondary, nil
}

func decodeSlot(ciphertext []byte) (*credential.Credential, error) {
	var plain [slot]byte
	defer clear(plain[:])

	if err := vncauth.Decrypt(plain[:], ciphertext); err != nil {
		return nil, err
	}
	cred, _, err := credential.New(vncauth.Unpad(plain[:]))
	return cred, err
}

// Read loads and decrypts the password file at path.
func Read(path string) (*credential.Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(err, "Cannot read password file %s", path)
	}
	defer secret.Zero(data)

	primary, secondary, err := Decode(data)
	if err != nil {
		return nil, errs.IO(err, "Cannot decode password file %s", path)
	}
	return &credential.Pair{Primary: primary, Secondary: secondary}, nil
}
