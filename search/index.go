// Package search keeps a full-text index of advertised sessions so members
// can discover joinable lobbies by title.
package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/blugelabs/bluge"

	"open-invite/domain"
)

// Listing is one discoverable session as stored in the index.
type Listing struct {
	HostID   domain.MemberID
	HostName string
	Title    string
}

// SessionIndex indexes advertised sessions in an in-memory Bluge index.
// Sessions enter the index on Advertise, follow renames, and leave on end or
// cancel. The index never outlives the process, matching the engine's
// in-memory-only state model.
type SessionIndex struct {
	mu     sync.Mutex
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSessionIndex(log *slog.Logger) (*SessionIndex, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &SessionIndex{writer: writer, log: log}, nil
}

// Put inserts or refreshes the listing for a host.
func (idx *SessionIndex) Put(listing Listing) error {
	doc := bluge.NewDocument(string(listing.HostID)).
		AddField(bluge.NewTextField("title", listing.Title).StoreValue()).
		AddField(bluge.NewTextField("host", listing.HostName).StoreValue())

	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.writer.Update(doc.ID(), doc)
}

// Forget drops the host's listing. Unknown hosts are a no-op.
func (idx *SessionIndex) Forget(hostID domain.MemberID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.writer.Delete(bluge.Identifier(string(hostID)))
}

// Find returns up to limit listings whose title matches the query terms.
func (idx *SessionIndex) Find(ctx context.Context, terms string, limit int) ([]Listing, error) {
	reader, err := idx.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			idx.log.Warn("Failed to close index reader", "err", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("title")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var listing Listing
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				listing.HostID = domain.MemberID(value)
			case "title":
				listing.Title = string(value)
			case "host":
				listing.HostName = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Close releases the underlying index.
func (idx *SessionIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.writer.Close()
}
