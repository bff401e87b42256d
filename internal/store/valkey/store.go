// Package valkeystore is a store.Store backend on a ValKey instance, for
// setups where several client hosts share one state store.
package valkeystore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

var (
	ErrGetValue    = errors.New("getting value from store")
	ErrSetValue    = errors.New("setting value into store")
	ErrDeleteValue = errors.New("deleting value from store")
)

type Store struct {
	valkey valkey.Client
	prefix string
}

var _ = store.Store(&Store{})

func New(valkeyClient valkey.Client, prefix string) *Store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &Store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key(key)).Build()).ToString()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return "", errors.Join(serviceerr.ErrNotFound, valkeyErr)
		}

		return "", errors.Join(ErrGetValue, err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Set().Key(s.key(key)).Value(value).Build()).Error(); err != nil {
		return errors.Join(ErrSetValue, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(s.key(key)).Build()).Error(); err != nil {
		return errors.Join(ErrDeleteValue, err)
	}

	return nil
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return fmt.Sprintf("value:%s", name)
	}

	return fmt.Sprintf("%s:value:%s", s.prefix, name)
}
