package migrations

import (
	"time"

	"gorm.io/gorm"

	"blog-schema/internal/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version:   "20250601120000",
		Name:      "create_blog_schema",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			if err := db.Exec(`CREATE TYPE "user_role" AS ENUM('ADMIN', 'BASIC');`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE TABLE "users" (
	"id" uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	"name" varchar(255) NOT NULL,
	"age" integer NOT NULL,
	"email" varchar(255) NOT NULL,
	"user_role" user_role DEFAULT 'BASIC' NOT NULL,
	CONSTRAINT "unique_name_and_age" UNIQUE("name", "age"),
	CONSTRAINT "users_email_unique" UNIQUE("email")
);`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE INDEX "email_index" ON "users" ("email");`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE TABLE "users_preferences" (
	"id" uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	"email_updates" boolean DEFAULT false NOT NULL,
	"user_id" uuid NOT NULL,
	CONSTRAINT "fk_users_preferences" FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE
);`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE TABLE "posts" (
	"id" uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	"title" varchar(255) NOT NULL,
	"average_rating" real DEFAULT 0 NOT NULL,
	"created_at" timestamp DEFAULT now() NOT NULL,
	"updated_at" timestamp DEFAULT now() NOT NULL,
	"author_id" uuid NOT NULL,
	CONSTRAINT "fk_users_posts" FOREIGN KEY ("author_id") REFERENCES "users"("id") ON DELETE RESTRICT
);`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE TABLE "categories" (
	"id" uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	"name" varchar(255) NOT NULL
);`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE TABLE "posts_categories" (
	"post_id" uuid NOT NULL,
	"category_id" uuid NOT NULL,
	CONSTRAINT "posts_categories_post_id_category_id_pk" PRIMARY KEY("post_id", "category_id"),
	CONSTRAINT "fk_categories_posts" FOREIGN KEY ("category_id") REFERENCES "categories"("id") ON DELETE RESTRICT,
	CONSTRAINT "fk_posts_post_categories" FOREIGN KEY ("post_id") REFERENCES "posts"("id") ON DELETE RESTRICT
);`).Error; err != nil {
				return err
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP TABLE IF EXISTS "posts_categories";`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS "categories";`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS "posts";`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS "users_preferences";`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS "users";`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TYPE IF EXISTS "user_role";`).Error; err != nil {
				return err
			}
			return nil
		},
	})
}
