// Package testutil provides the in-memory stand-ins the test suites run
// against: a sqlite database carrying the full schema and a miniredis
// instance for the document store.
package testutil

import (
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/regkey"
)

// OpenTestDB opens a fresh in-memory database with all tables created.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Course{},
		&model.Account{},
		&model.Instructor{},
		&model.Student{},
		&model.FeedbackSession{},
		&model.Notification{},
		&model.DeadlineExtension{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// OpenTestRedis starts a miniredis and returns a client bound to it.
func OpenTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// TestKeySpec is a fixed key spec for registration key tests; version 1,
// 32 bytes.
const TestKeySpec = "1:" + testKeyHex

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// NewTestEncrypter builds an encrypter from TestKeySpec.
func NewTestEncrypter(t *testing.T) *regkey.Encrypter {
	t.Helper()

	enc, err := regkey.New(TestKeySpec)
	if err != nil {
		t.Fatalf("building test encrypter: %v", err)
	}
	return enc
}

// SecondKeySpec extends TestKeySpec with a version 2 key for rotation
// tests.
func SecondKeySpec() string {
	return TestKeySpec + ",2:" + strings.Repeat("ab", 32)
}
