package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Run наполняет базу минимальным набором для работы: администратор,
// демонстрационный тенант с главным складом и пара типов техники.
// Все шаги идемпотентны, повторный запуск ничего не дублирует.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("Запуск сидера...")

	universityID, err := seedDemoUniversity(ctx, db)
	if err != nil {
		return err
	}
	if err := seedMainWarehouse(ctx, db, universityID); err != nil {
		return err
	}
	if err := seedAdmin(ctx, db); err != nil {
		return err
	}
	if err := seedManager(ctx, db, universityID); err != nil {
		return err
	}
	if err := seedEquipmentTypes(ctx, db, universityID); err != nil {
		return err
	}

	log.Println("Сидер завершён.")
	return nil
}

func seedDemoUniversity(ctx context.Context, db *pgxpool.Pool) (uint64, error) {
	log.Println("  - Демонстрационный университет...")

	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM universities WHERE key = 'demo'").Scan(&id)
	if err == nil {
		log.Println("    - уже существует, пропускаем")
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ошибка проверки университета: %w", err)
	}

	err = db.QueryRow(ctx,
		`INSERT INTO universities (key, name, address, is_active)
		 VALUES ('demo', 'Демонстрационный университет', 'г. Худжанд', TRUE)
		 RETURNING id`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать университет: %w", err)
	}
	return id, nil
}

func seedMainWarehouse(ctx context.Context, db *pgxpool.Pool, universityID uint64) error {
	log.Println("  - Главный склад...")

	var id uint64
	err := db.QueryRow(ctx,
		"SELECT id FROM warehouses WHERE university_id = $1 AND is_main = TRUE", universityID).Scan(&id)
	if err == nil {
		log.Println("    - уже существует, пропускаем")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки склада: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO warehouses (university_id, name, address, is_main)
		 VALUES ($1, 'Главный склад', 'Корпус 1, подвал', TRUE)`, universityID)
	if err != nil {
		return fmt.Errorf("не удалось создать главный склад: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Администратор...")

	email := "admin@inventory.tj"
	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		log.Println("    - уже существует, пропускаем")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки администратора: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (university_id, fio, email, password_hash, role)
		 VALUES (NULL, 'Администратор системы', $1, $2, 'admin')`,
		email, string(hash))
	if err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}
	return nil
}

func seedManager(ctx context.Context, db *pgxpool.Pool, universityID uint64) error {
	log.Println("  - Менеджер демонстрационного тенанта...")

	email := "manager@demo.tj"
	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		log.Println("    - уже существует, пропускаем")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки менеджера: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (university_id, fio, email, password_hash, role)
		 VALUES ($1, 'Менеджер инвентаря', $2, $3, 'manager')`,
		universityID, email, string(hash))
	if err != nil {
		return fmt.Errorf("не удалось создать менеджера: %w", err)
	}
	return nil
}

func seedEquipmentTypes(ctx context.Context, db *pgxpool.Pool, universityID uint64) error {
	log.Println("  - Базовые типы техники...")

	types := []struct {
		name string
		slug string
	}{
		{"Компьютер", "kompyuter"},
		{"Проектор", "proektor"},
		{"Принтер", "printer"},
	}

	for _, t := range types {
		_, err := db.Exec(ctx,
			`INSERT INTO equipment_types (university_id, name, slug)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (university_id, slug) DO NOTHING`,
			universityID, t.name, t.slug)
		if err != nil {
			return fmt.Errorf("не удалось создать тип %q: %w", t.name, err)
		}
	}
	return nil
}
