package migrate

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idToString normalizes a Mongo _id (ObjectID or string) to a string key
func idToString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// objectIDOrString converts a string key back to the form stored as _id
func objectIDOrString(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}
