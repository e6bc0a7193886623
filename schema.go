package trackable

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TableNamer provides a custom table name for a model.
type TableNamer interface {
	TableName() string
}

var tableNamerType = reflect.TypeFor[TableNamer]()

// resolveTableName returns the table of the struct type rt: TableName() on a
// zero value when rt or *rt implements TableNamer, else the pluralized snake
// case of the type name (Article -> articles, BlogPost -> blog_posts).
func resolveTableName(rt reflect.Type) (string, error) {
	if rt.Implements(tableNamerType) || reflect.PointerTo(rt).Implements(tableNamerType) {
		namer := reflect.New(rt).Interface().(TableNamer)
		name := strings.TrimSpace(namer.TableName())
		if name == "" {
			return "", fmt.Errorf("trackable: TableName returned empty string. %v", rt)
		}
		return name, nil
	}
	if rt.Name() == "" {
		return "", fmt.Errorf("trackable: cannot derive table name for anonymous struct of type %v", rt)
	}
	return inflection.Plural(toSnakeCase(rt.Name())), nil
}

func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
