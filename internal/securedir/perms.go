package securedir

import "os"

const (
	// Dir is the mode a newly created password directory gets.
	Dir os.FileMode = 0o700

	// File is the mode of the password file itself.
	File os.FileMode = 0o600

	// groupOther covers every group and other permission bit.
	groupOther = 0o077
)
