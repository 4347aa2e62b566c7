// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/SnellerInc/sqlfmt/format"

	"github.com/bradfitz/gomemcache/memcache"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ResultCache caches rendered SQL text.
//
// Entries are keyed on the configuration
// and the SQL text that produced them.
type ResultCache interface {
	// Store saves the rendered text of sql under cfg.
	Store(cfg *format.Config, sql, text string) error

	// Fetch loads the rendered text of sql under cfg.
	// It returns "", false if nothing was stored.
	Fetch(cfg *format.Config, sql string) (string, bool, error)
}

// noCache is a ResultCache that
// stores nothing.
type noCache struct{}

func (noCache) Store(cfg *format.Config, sql, text string) error { return nil }

func (noCache) Fetch(cfg *format.Config, sql string) (string, bool, error) {
	return "", false, nil
}

// memcacheCache is a ResultCache backed by memcached.
//
// Values are sealed with a key derived from
// the cache secret, since the cached text
// is the query itself.
type memcacheCache struct {
	client     *memcache.Client
	aead       cipher.AEAD
	expiration int32 // see memcache.Item.Expiration
}

func newBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

func newMemcacheCache(client *memcache.Client, secret string, expiration int) (*memcacheCache, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(newBlake2b512, []byte(secret), nil, []byte("sqlfmt result cache"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &memcacheCache{
		client:     client,
		aead:       aead,
		expiration: int32(expiration),
	}, nil
}

// cacheKey calculates the value for use as memcache.Item.Key;
// memcached keys are at most 250 bytes without
// whitespace, so the inputs are hashed
func cacheKey(cfg *format.Config, sql string) (string, error) {
	opts, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	h, _ := blake2b.New256(nil)
	h.Write(opts)
	h.Write([]byte{0})
	h.Write([]byte(sql))
	return fmt.Sprintf("sqlfmt:format:%x", h.Sum(nil)), nil
}

// seal returns the nonce followed by
// the encrypted text; the cache key is
// the additional data, so an entry cannot
// be replayed under a different key
func (m *memcacheCache) seal(key, text string) ([]byte, error) {
	nonce := make([]byte, m.aead.NonceSize(), m.aead.NonceSize()+len(text)+m.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return m.aead.Seal(nonce, nonce, []byte(text), []byte(key)), nil
}

func (m *memcacheCache) open(key string, buf []byte) (string, error) {
	n := m.aead.NonceSize()
	if len(buf) < n {
		return "", fmt.Errorf("cache entry %s: %d bytes is too short", key, len(buf))
	}
	text, err := m.aead.Open(nil, buf[:n], buf[n:], []byte(key))
	if err != nil {
		return "", fmt.Errorf("cache entry %s: %w", key, err)
	}
	return string(text), nil
}

func (m *memcacheCache) Store(cfg *format.Config, sql, text string) error {
	key, err := cacheKey(cfg, sql)
	if err != nil {
		return err
	}
	value, err := m.seal(key, text)
	if err != nil {
		return err
	}
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: m.expiration,
	})
}

func (m *memcacheCache) Fetch(cfg *format.Config, sql string) (string, bool, error) {
	key, err := cacheKey(cfg, sql)
	if err != nil {
		return "", false, err
	}
	item, err := m.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return "", false, nil
		}
		return "", false, err
	}
	text, err := m.open(key, item.Value)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
