package articles

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketArticles = []byte("articles")
	bucketIDs      = []byte("article_ids")
)

// BoltRepository stores articles as JSON documents in a bbolt file, keyed by
// slug, with a secondary id -> slug bucket.
type BoltRepository struct {
	db *bolt.DB
}

var _ Repository = (*BoltRepository)(nil)

// OpenBoltRepository opens (or creates) the database file at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("articles: open bolt store: %w", err)
	}
	repo, err := NewBoltRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewBoltRepository uses an already opened database, creating the buckets
// it needs.
func NewBoltRepository(db *bolt.DB) (*BoltRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketArticles, bucketIDs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("articles: init bolt buckets: %w", err)
	}
	return &BoltRepository{db: db}, nil
}

// Close releases the underlying database file.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func (r *BoltRepository) Create(_ context.Context, record *Article) (*Article, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		articles := tx.Bucket(bucketArticles)
		if articles.Get([]byte(record.Slug)) != nil {
			return ErrSlugExists
		}
		return putArticle(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return cloneArticle(record), nil
}

func (r *BoltRepository) Update(_ context.Context, record *Article) (*Article, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDs)
		current := ids.Get(idKey(record.ID))
		if current == nil {
			return &NotFoundError{Resource: "article", Key: record.ID.String()}
		}
		if string(current) != record.Slug {
			articles := tx.Bucket(bucketArticles)
			if articles.Get([]byte(record.Slug)) != nil {
				return ErrSlugExists
			}
			if err := articles.Delete(current); err != nil {
				return err
			}
		}
		return putArticle(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return cloneArticle(record), nil
}

func (r *BoltRepository) GetBySlug(_ context.Context, slug string) (*Article, error) {
	var record *Article
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketArticles).Get([]byte(slug))
		if data == nil {
			return &NotFoundError{Resource: "article", Key: slug}
		}
		var err error
		record, err = decodeArticle(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every article ordered by slug, which is bbolt's key order.
func (r *BoltRepository) List(_ context.Context) ([]*Article, error) {
	var out []*Article
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArticles).ForEach(func(_, data []byte) error {
			record, err := decodeArticle(data)
			if err != nil {
				return err
			}
			out = append(out, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BoltRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDs)
		slug := ids.Get(idKey(id))
		if slug == nil {
			return &NotFoundError{Resource: "article", Key: id.String()}
		}
		if err := tx.Bucket(bucketArticles).Delete(slug); err != nil {
			return err
		}
		return ids.Delete(idKey(id))
	})
}

func putArticle(tx *bolt.Tx, record *Article) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("articles: encode %q: %w", record.Slug, err)
	}
	if err := tx.Bucket(bucketArticles).Put([]byte(record.Slug), data); err != nil {
		return err
	}
	return tx.Bucket(bucketIDs).Put(idKey(record.ID), []byte(record.Slug))
}

func decodeArticle(data []byte) (*Article, error) {
	var record Article
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("articles: decode record: %w", err)
	}
	return &record, nil
}

func idKey(id uuid.UUID) []byte {
	return id[:]
}
