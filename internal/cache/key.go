// Package cache is the only shared mutable state in the service: a keyed,
// read-through mirror of entities owned by the upstream backend. Mutations
// never write into the cache directly; they invalidate the keys they are
// declared to affect and let the next read re-fetch.
package cache

// Key identifies one cached query: entity kind plus identifying parameters.
type Key string

func DocumentKey(documentID string) Key {
	return Key("document:" + documentID)
}

func DocumentListKey(projectID string) Key {
	return Key("documents:project:" + projectID)
}

func SectionsKey(documentID string) Key {
	return Key("document:" + documentID + ":sections")
}

func VersionsKey(documentID string) Key {
	return Key("document:" + documentID + ":versions")
}

func ReviewStatusKey(documentID string) Key {
	return Key("document:" + documentID + ":review-status")
}

func ReviewsKey(documentID string) Key {
	return Key("document:" + documentID + ":reviews")
}
