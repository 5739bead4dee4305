// Package ir is the intermediate representation a conversion run builds:
// a node store addressed by typed ids, the table of module contexts holding
// those ids, the namespace registry and the pending import requests.
package ir

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/decl"
	"fmt"
)

// ID addresses a declaration in a Store. The zero ID is never issued.
type ID uint32

// Bucket is the declaration-kind slot a node occupies in its context.
type Bucket int

const (
	BucketFunctions Bucket = iota
	BucketClasses
	BucketTypes
	BucketInterfaces
	BucketVariables
	BucketExports
)

var bucketNames = [...]string{
	BucketFunctions:  "functions",
	BucketClasses:    "classes",
	BucketTypes:      "types",
	BucketInterfaces: "interfaces",
	BucketVariables:  "variables",
	BucketExports:    "exports",
}

func (b Bucket) String() string {
	if b >= 0 && int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return fmt.Sprintf("bucket(%d)", int(b))
}

// Buckets lists every bucket.
func Buckets() []Bucket {
	return []Bucket{BucketFunctions, BucketClasses, BucketTypes, BucketInterfaces, BucketVariables, BucketExports}
}

type entry struct {
	node    decl.Declaration
	context string
	bucket  Bucket
}

// Store owns every declaration admitted during a run.
type Store struct {
	entries []entry
}

func NewStore() *Store {
	return &Store{entries: make([]entry, 0, 64)}
}

// Insert stores node and returns its id.
func (s *Store) Insert(context string, bucket Bucket, node decl.Declaration) ID {
	s.entries = append(s.entries, entry{node: node, context: context, bucket: bucket})
	return ID(len(s.entries))
}

// Fetch returns the declaration behind id. A miss means an id was issued
// by another store or fabricated, which is an internal error.
func (s *Store) Fetch(id ID) (decl.Declaration, error) {
	if id == 0 || int(id) > len(s.entries) {
		return nil, errors.Newf(errors.CodeInternal, "dangling node id %d", id)
	}
	return s.entries[id-1].node, nil
}

// Key renders the descriptive context/bucket/name form of id for logs.
func (s *Store) Key(id ID) string {
	if id == 0 || int(id) > len(s.entries) {
		return fmt.Sprintf("<dangling:%d>", id)
	}
	e := s.entries[id-1]
	return fmt.Sprintf("%s/%s/%s", e.context, e.bucket, e.node.DeclName())
}

func (s *Store) Len() int {
	return len(s.entries)
}
