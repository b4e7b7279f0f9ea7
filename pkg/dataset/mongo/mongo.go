// Package mongo reads and writes datasets kept in a MongoDB database.
//
// Persons live in the "persons" collection, one document per person. The
// group orders live in a single document of the "settings" collection with
// _id "group_order"; without it the orders are derived from the persons.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/chronoline/pkg/dataset"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

const (
	personsCollection  = "persons"
	settingsCollection = "settings"
	groupOrderID       = "group_order"

	connectTimeout = 10 * time.Second
)

// Source is a dataset backed by a MongoDB database.
type Source struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for uri and selects database. The connection is
// verified with a ping.
func Connect(ctx context.Context, uri, database string) (*Source, error) {
	if database == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "mongo database name cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "ping mongo")
	}
	return &Source{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type personDoc struct {
	ID           string           `bson:"_id"`
	Name         string           `bson:"name"`
	Birth        int              `bson:"birth"`
	Death        int              `bson:"death"`
	Category     string           `bson:"category,omitempty"`
	Country      string           `bson:"country,omitempty"`
	ReignStart   *int             `bson:"reign_start,omitempty"`
	ReignEnd     *int             `bson:"reign_end,omitempty"`
	Achievements []achievementDoc `bson:"achievements,omitempty"`
	Position     int              `bson:"position"`
}

type achievementDoc struct {
	Year  int    `bson:"year"`
	Label string `bson:"label,omitempty"`
}

type groupOrderDoc struct {
	ID         string   `bson:"_id"`
	Categories []string `bson:"categories"`
	Countries  []string `bson:"countries"`
}

func (d personDoc) person() timeline.Person {
	p := timeline.Person{
		ID:         d.ID,
		Name:       d.Name,
		BirthYear:  d.Birth,
		DeathYear:  d.Death,
		Category:   d.Category,
		Country:    d.Country,
		ReignStart: d.ReignStart,
		ReignEnd:   d.ReignEnd,
	}
	for _, a := range d.Achievements {
		p.Achievements = append(p.Achievements, timeline.Achievement{Year: a.Year, Label: a.Label})
	}
	return p
}

func toDoc(p timeline.Person, position int) personDoc {
	d := personDoc{
		ID:         p.ID,
		Name:       p.Name,
		Birth:      p.BirthYear,
		Death:      p.DeathYear,
		Category:   p.Category,
		Country:    p.Country,
		ReignStart: p.ReignStart,
		ReignEnd:   p.ReignEnd,
		Position:   position,
	}
	for _, a := range p.Achievements {
		d.Achievements = append(d.Achievements, achievementDoc{Year: a.Year, Label: a.Label})
	}
	return d
}

// Dataset reads every person and the group orders.
func (s *Source) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	cur, err := s.db.Collection(personsCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "birth", Value: 1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "find persons")
	}
	var docs []personDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "decode persons")
	}

	d := &dataset.Dataset{Persons: make([]timeline.Person, len(docs))}
	for i, doc := range docs {
		d.Persons[i] = doc.person()
	}

	var order groupOrderDoc
	err = s.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": groupOrderID}).Decode(&order)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "read group order")
	default:
		d.Categories, d.Countries = order.Categories, order.Countries
	}

	d.Normalize()
	return d, nil
}

// Replace overwrites the stored persons and group orders with d.
func (s *Source) Replace(ctx context.Context, d *dataset.Dataset) (int, error) {
	persons := s.db.Collection(personsCollection)
	if _, err := persons.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeStorage, err, "clear persons")
	}

	if len(d.Persons) > 0 {
		docs := make([]any, len(d.Persons))
		for i, p := range d.Persons {
			docs[i] = toDoc(p, i)
		}
		if _, err := persons.InsertMany(ctx, docs); err != nil {
			return 0, apperr.Wrap(apperr.ErrCodeStorage, err, "insert persons")
		}
	}

	order := groupOrderDoc{ID: groupOrderID, Categories: d.Categories, Countries: d.Countries}
	_, err := s.db.Collection(settingsCollection).ReplaceOne(ctx, bson.M{"_id": groupOrderID}, order,
		options.Replace().SetUpsert(true))
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeStorage, err, "write group order")
	}
	return len(d.Persons), nil
}

// String identifies the source in logs.
func (s *Source) String() string {
	return fmt.Sprintf("mongo:%s", s.db.Name())
}
