// internal/infrastructure/persistence/postgres/repository/requests/repository_test.go
package requests

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"crypto-signal-bot/internal/infrastructure/persistence/postgres"
	"crypto-signal-bot/internal/infrastructure/persistence/postgres/models"
)

func TestInsertQueryMatchesModel(t *testing.T) {
	tags := map[string]bool{}
	typ := reflect.TypeOf(models.RequestRecord{})
	for i := 0; i < typ.NumField(); i++ {
		tags[typ.Field(i).Tag.Get("db")] = true
	}

	params := regexp.MustCompile(`:(\w+)`).FindAllStringSubmatch(insertQuery, -1)
	if len(params) != len(tags) {
		t.Errorf("параметров %d, полей %d", len(params), len(tags))
	}
	for _, p := range params {
		if !tags[p[1]] {
			t.Errorf("параметр :%s не найден в models.RequestRecord", p[1])
		}
	}
}

func TestSchemaHasModelColumns(t *testing.T) {
	schema := postgres.Migrations[0].SQL
	typ := reflect.TypeOf(models.RequestRecord{})
	for i := 0; i < typ.NumField(); i++ {
		col := typ.Field(i).Tag.Get("db")
		if !strings.Contains(schema, "\n\t\t\t"+col+" ") {
			t.Errorf("колонки %s нет в схеме", col)
		}
	}
}
