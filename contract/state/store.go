//----------------------------------------------------------------------
// This file is part of Anchor.
// Copyright (C) 2024-2026 Bernd Fix  >Y<
//
// Anchor is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Anchor is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package state

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is a durable state view backed by a bbolt database. Each
// contract owns a nested bucket under the store's root bucket; the
// host applies the state diff of a successful invocation with
// ApplyDiff in one transaction.
type Store struct {
	db   *bolt.DB
	root []byte
}

// NewStore opens (or creates) a store at the given path. The
// namespace selects the root bucket, so several stores (contract
// state, flushed memory) can share one database file.
func NewStore(path, namespace string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	root := []byte(namespace)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(root)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:   db,
		root: root,
	}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// bucket returns the contract bucket inside a transaction, or nil.
func (s *Store) bucket(tx *bolt.Tx, contractID [32]byte) *bolt.Bucket {
	root := tx.Bucket(s.root)
	if root == nil {
		return nil
	}
	return root.Bucket(contractID[:])
}

// Read returns the value under (contractID, key).
func (s *Store) Read(contractID [32]byte, key []byte) ([]byte, bool) {
	var out []byte
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := s.bucket(tx, contractID)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			out = make([]byte, len(v))
			copy(out, v)
			found = true
		}
		return nil
	})
	return out, found
}

// ReadState satisfies the engine's state reader.
func (s *Store) ReadState(contractID [32]byte, key []byte) ([]byte, bool) {
	return s.Read(contractID, key)
}

// Write replaces the value under (contractID, key).
func (s *Store) Write(contractID [32]byte, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(s.root)
		b, err := root.CreateBucketIfNotExists(contractID[:])
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

// Free removes the entry under (contractID, key).
func (s *Store) Free(contractID [32]byte, key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := s.bucket(tx, contractID)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
}

// ApplyDiff commits an invocation's state diff atomically. A nil
// value removes the entry.
func (s *Store) ApplyDiff(contractID [32]byte, diff map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(s.root)
		b, err := root.CreateBucketIfNotExists(contractID[:])
		if err != nil {
			return err
		}
		for k, v := range diff {
			if v == nil {
				if err := b.Delete([]byte(k)); err != nil {
					return err
				}
				continue
			}
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}
