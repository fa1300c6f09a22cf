package util

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// GetPropertySortBson maps a "<field>_<asc|desc>" query value to a sort document.
// Unknown fields fall back to creation time.
func GetPropertySortBson(sort string) bson.D {
	value := -1
	var key string

	switch {
	case strings.HasPrefix(sort, "price"):
		key = "price"
	case strings.HasPrefix(sort, "rating"):
		key = "rating"
	case strings.HasPrefix(sort, "views"):
		key = "views"
	default:
		key = "created_at"
	}

	if strings.HasSuffix(sort, "_asc") {
		value = 1
	}
	return bson.D{{Key: key, Value: value}, {Key: "_id", Value: value}}
}
