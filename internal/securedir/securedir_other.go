//go:build !unix

package securedir

import (
	"github.com/hashicorp/go-hclog"

	"github.com/benaskins/vncpasswd/internal/errs"
)

type Provisioner struct {
	logger hclog.Logger
}

func New(logger hclog.Logger) *Provisioner {
	return &Provisioner{logger: logger.Named("securedir")}
}

// Ensure always fails: ownership and mode checks need a unix filesystem.
func (p *Provisioner) Ensure(path string, strict bool) error {
	return errs.IO(nil, "Error: cannot verify ownership of %s on this platform", path)
}
