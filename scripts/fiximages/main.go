// Одноразовый скрипт для исправления исторических URL изображений.
// Использует привилегированное подключение DATABASE_ADMIN_URL и запускается
// вручную, вне основного приложения.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	oldHost := flag.String("old", "", "заменяемый хост в URL изображений")
	newHost := flag.String("new", "", "новый хост в URL изображений")
	dryRun := flag.Bool("dry-run", true, "только показать количество затронутых строк")
	flag.Parse()

	if *oldHost == "" || *newHost == "" {
		log.Fatal("❌ Укажите -old и -new хосты")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	adminURL := os.Getenv("DATABASE_ADMIN_URL")
	if adminURL == "" {
		log.Fatal("❌ Не задана переменная окружения DATABASE_ADMIN_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, adminURL)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения к базе данных: %v", err)
	}
	defer pool.Close()

	var affected int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tool_images WHERE url LIKE '%' || $1 || '%'
	`, *oldHost).Scan(&affected)

	if err != nil {
		log.Fatalf("❌ Ошибка подсчета строк: %v", err)
	}

	log.Printf("Найдено %d изображений с хостом %s", affected, *oldHost)

	if *dryRun {
		log.Println("Запуск в режиме dry-run, изменения не применены. Запустите с -dry-run=false")
		return
	}

	tag, err := pool.Exec(ctx, `
		UPDATE tool_images
		SET url = replace(url, $1, $2),
		    preview_url = replace(preview_url, $1, $2)
		WHERE url LIKE '%' || $1 || '%'
	`, *oldHost, *newHost)

	if err != nil {
		log.Fatalf("❌ Ошибка обновления URL: %v", err)
	}

	log.Printf("✅ Обновлено %d изображений", tag.RowsAffected())
}
