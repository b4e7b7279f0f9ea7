// Package dataset reads and writes collections of persons for the timeline.
//
// # Formats
//
// A dataset is stored as JSON, YAML or CSV. JSON and YAML share one document
// shape:
//
//	{
//	  "categories": ["Politics", "Science"],
//	  "countries":  ["Greece", "Rome"],
//	  "persons": [
//	    {"id": "pericles", "name": "Pericles", "birth": -495, "death": -429,
//	     "category": "Politics", "country": "Greece/Athens"}
//	  ]
//	}
//
// The "categories" and "countries" lists give the group order used for row
// placement. When omitted they are derived from the persons in order of first
// appearance.
//
// CSV files carry one person per record with a header row naming the columns
// id, name, birth, death, category, country, reign_start, reign_end and
// achievements. Only name, birth and death are required. Achievements are
// written as "year:label" pairs separated by ";".
//
// # Loading
//
// [Load] picks the reader from the file extension. Every reader normalizes
// the result: persons without an ID get a stable name-based UUID and at most
// [timeline.MaxAchievements] achievements are kept. [Validate] reports
// suspicious records as warnings without rejecting the dataset; the layout
// engine tolerates them.
package dataset
