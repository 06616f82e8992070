// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/thomasdurkin/Flask-Blog/internal/store"
)

// startPostgres starts a PostgreSQL container for testing.
func startPostgres() (string, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("flaskblog_test"),
		postgres.WithUsername("flaskblog"),
		postgres.WithPassword("flaskblog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", nil, err
	}

	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return connStr, cleanup, nil
}

var _ = Describe("Store", func() {
	var connStr string
	var cleanup func()

	BeforeEach(func() {
		var err error
		connStr, cleanup, err = startPostgres()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Connect", func() {
		It("reaches a running database", func() {
			ctx := context.Background()

			pool, err := store.Connect(ctx, connStr)
			Expect(err).NotTo(HaveOccurred())
			defer pool.Close()

			Expect(pool.Ping(ctx)).To(Succeed())
		})
	})

	Describe("Migrator", func() {
		It("applies and rolls back the schema", func() {
			ctx := context.Background()

			migrator, err := store.NewMigrator(connStr)
			Expect(err).NotTo(HaveOccurred())
			defer migrator.Close()

			Expect(migrator.Up()).To(Succeed())

			version, dirty, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(1)))
			Expect(dirty).To(BeFalse())

			pool, err := store.Connect(ctx, connStr)
			Expect(err).NotTo(HaveOccurred())
			defer pool.Close()

			for _, table := range []string{"users", "sessions", "posts"} {
				var count int
				err := pool.QueryRow(ctx,
					`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`,
					table).Scan(&count)
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(1), "table %s should exist", table)
			}

			Expect(migrator.Down()).To(Succeed())

			var count int
			err = pool.QueryRow(ctx,
				`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'users'`).Scan(&count)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("is idempotent when nothing is pending", func() {
			migrator, err := store.NewMigrator(connStr)
			Expect(err).NotTo(HaveOccurred())
			defer migrator.Close()

			Expect(migrator.Up()).To(Succeed())
			Expect(migrator.Up()).To(Succeed())

			pending, err := migrator.PendingMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())

			applied, err := migrator.AppliedMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(Equal([]uint{1}))
		})
	})
})
