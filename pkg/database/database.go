package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the optional backing stores. Either field may be nil when
// its URL was not configured or the connection failed.
type Database struct {
	Postgres *gorm.DB
	MongoDB  *mongo.Database
}

func NewDatabase(postgresURL, mongoURL, mongoDBName string, log *logrus.Logger) (*Database, error) {
	db := &Database{}

	if postgresURL != "" {
		postgresDB, err := initPostgreSQL(postgresURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to PostgreSQL")
		}
		log.Info("Connected to PostgreSQL successfully")
		db.Postgres = postgresDB
	}

	// MongoDB only feeds the offline catalog, so it stays optional
	if mongoURL != "" {
		mongoDB, err := initMongoDB(mongoURL, mongoDBName)
		if err != nil {
			log.WithError(err).Warn("MongoDB connection failed, offline catalog falls back to seed data")
		} else {
			log.Info("Connected to MongoDB successfully")
			db.MongoDB = mongoDB
		}
	}

	return db, nil
}

func initPostgreSQL(url string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(url), config)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func initMongoDB(url, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return client.Database(dbName), nil
}

func (db *Database) Close() error {
	if db.Postgres != nil {
		if sqlDB, err := db.Postgres.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if db.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.MongoDB.Client().Disconnect(ctx)
	}

	return nil
}
