package credentials

import (
	"context"
	"errors"

	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// Static returns a credential store with a single static credential
// for the specified registry host.
func Static(host, username, password string) credentials.Store {
	return &staticStore{
		host: host,
		cred: auth.Credential{
			Username: username,
			Password: password,
		},
	}
}

// staticStore implements credentials.Store for a single static credential.
type staticStore struct {
	host string
	cred auth.Credential
}

// Get retrieves credentials for the given server address.
func (s *staticStore) Get(_ context.Context, serverAddress string) (auth.Credential, error) {
	if serverAddress == s.host {
		return s.cred, nil
	}
	return auth.EmptyCredential, nil
}

// Put is not supported for static credentials.
func (s *staticStore) Put(_ context.Context, _ string, _ auth.Credential) error {
	return errors.New("static credential store is read-only")
}

// Delete is not supported for static credentials.
func (s *staticStore) Delete(_ context.Context, _ string) error {
	return errors.New("static credential store is read-only")
}
