package pkg

import (
	petname "github.com/dustinkirkland/golang-petname"
)

// SessionLabel - human friendly name shown next to a session id, e.g. "brave-otter".
func SessionLabel() string {
	return petname.Generate(2, "-")
}
