package export

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
)

// Downloader delivers an artifact and returns where it went.
type Downloader interface {
	Download(ctx context.Context, a *Artifact) (string, error)
}

// DirDownloader writes artifacts into a directory, replacing any previous
// file of the same name.
type DirDownloader struct {
	Dir string
}

// Download writes the artifact atomically and returns its path.
func (d DirDownloader) Download(ctx context.Context, a *Artifact) (string, error) {
	if err := apperr.ValidateFilename(a.Filename); err != nil {
		return "", err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInvalidPath, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+a.Filename+".*")
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInvalidPath, err, "write %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, a.Filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Record is the document stored by MongoDownloader.
type Record struct {
	ID          string    `bson:"_id"`
	Filename    string    `bson:"filename"`
	ContentType string    `bson:"content_type"`
	Format      string    `bson:"format"`
	Scale       float64   `bson:"scale"`
	Size        int       `bson:"size"`
	Data        []byte    `bson:"data"`
	CreatedAt   time.Time `bson:"created_at"`
}

// inserter is the part of *mongo.Collection MongoDownloader needs.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoDownloader archives artifacts in a MongoDB collection.
type MongoDownloader struct {
	client *mongo.Client
	coll   inserter
	name   string
	now    func() time.Time
}

// NewMongoDownloader connects to uri and archives into database.collection.
func NewMongoDownloader(ctx context.Context, uri, database, collection string) (*MongoDownloader, error) {
	if uri == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "archive requires a mongo URI")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "ping mongo")
	}
	return &MongoDownloader{
		client: client,
		coll:   client.Database(database).Collection(collection),
		name:   database + "." + collection,
		now:    time.Now,
	}, nil
}

// Download inserts the artifact and returns "mongo://{db}.{coll}/{id}".
func (d *MongoDownloader) Download(ctx context.Context, a *Artifact) (string, error) {
	rec := Record{
		ID:          uuid.NewString(),
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Format:      string(a.Format),
		Scale:       a.Scale,
		Size:        len(a.Data),
		Data:        a.Data,
		CreatedAt:   d.now().UTC(),
	}
	if _, err := d.coll.InsertOne(ctx, rec); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeNetwork, err, "archive %s", a.Filename)
	}
	return fmt.Sprintf("mongo://%s/%s", d.name, rec.ID), nil
}

// Close disconnects from MongoDB.
func (d *MongoDownloader) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

// WriteAttachment answers an HTTP request with the artifact as a file
// download.
func WriteAttachment(w http.ResponseWriter, a *Artifact) {
	h := w.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	if a.Cached {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

var (
	_ Downloader = DirDownloader{}
	_ Downloader = (*MongoDownloader)(nil)
)
