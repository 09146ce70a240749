package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Seed populates the database with initial development data: one sample
// category with a small question tree in all three content languages,
// and the mini-app home texts. It is a no-op once any category exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	catID := uuid.New()
	if _, err := tx.Exec(`
		INSERT INTO categories (id, sort_order) VALUES ($1, 0)
	`, catID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	catNames := map[string]string{
		"az": "Çatdırılma",
		"ru": "Доставка",
		"en": "Delivery",
	}
	for lang, name := range catNames {
		if _, err := tx.Exec(`
			INSERT INTO category_translations (category_id, language, name)
			VALUES ($1, $2, $3)
		`, catID, lang, name); err != nil {
			return fmt.Errorf("seed category translation %s: %w", lang, err)
		}
	}

	// A branching root question with two terminal children, plus one
	// terminal root. Enough to exercise both navigation surfaces.
	trackingID := uuid.New()
	if err := seedQuestion(tx, trackingID, &catID, nil, 0, map[string][2]string{
		"az": {"Sifarişim haradadır?", ""},
		"ru": {"Где мой заказ?", ""},
		"en": {"Where is my order?", ""},
	}); err != nil {
		return err
	}

	courierID := uuid.New()
	if err := seedQuestion(tx, courierID, nil, &trackingID, 0, map[string][2]string{
		"az": {"Kuryerlə çatdırılma", "Kuryer sifarişi 1-2 iş günü ərzində çatdırır."},
		"ru": {"Доставка курьером", "Курьер доставит заказ в течение 1-2 рабочих дней."},
		"en": {"Courier delivery", "The courier delivers within 1-2 business days."},
	}); err != nil {
		return err
	}

	pickupID := uuid.New()
	if err := seedQuestion(tx, pickupID, nil, &trackingID, 1, map[string][2]string{
		"az": {"Özün götür", "Sifarişi mağazadan iş saatlarında götürə bilərsiniz."},
		"ru": {"Самовывоз", "Заказ можно забрать из магазина в рабочее время."},
		"en": {"Pickup", "You can collect your order from the store during opening hours."},
	}); err != nil {
		return err
	}

	returnsID := uuid.New()
	if err := seedQuestion(tx, returnsID, &catID, nil, 1, map[string][2]string{
		"az": {"Sifarişi necə qaytara bilərəm?", "Qaytarma 14 gün ərzində mümkündür."},
		"ru": {"Как вернуть заказ?", "Возврат возможен в течение 14 дней."},
		"en": {"How do I return an order?", "Returns are accepted within 14 days."},
	}); err != nil {
		return err
	}

	settings := map[string]string{
		"welcome_title":   `{"az": "Salam!", "ru": "Здравствуйте!", "en": "Hello!"}`,
		"welcome_message": `{"az": "Sualınızı seçin.", "ru": "Выберите ваш вопрос.", "en": "Pick your question."}`,
		"contact_hint":    `{"az": "Cavab tapmadınız? Bizə yazın.", "ru": "Не нашли ответ? Напишите нам.", "en": "No answer? Contact us."}`,
	}
	for key, value := range settings {
		if _, err := tx.Exec(`
			INSERT INTO app_settings (key, value) VALUES ($1, $2)
		`, key, value); err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}

	slog.Info("database seeded with sample FAQ content",
		"categories", 1,
		"questions", 4,
	)
	return nil
}

// seedQuestion inserts one question with its translations. texts maps
// language to {question, answer}.
func seedQuestion(tx *sql.Tx, id uuid.UUID, categoryID, parentID *uuid.UUID, order int, texts map[string][2]string) error {
	if _, err := tx.Exec(`
		INSERT INTO questions (id, category_id, parent_id, keywords, sort_order)
		VALUES ($1, $2, $3, '[]', $4)
	`, id, categoryID, parentID, order); err != nil {
		return fmt.Errorf("seed question %s: %w", id, err)
	}
	for lang, t := range texts {
		if _, err := tx.Exec(`
			INSERT INTO question_translations (question_id, language, question, answer)
			VALUES ($1, $2, $3, $4)
		`, id, lang, t[0], t[1]); err != nil {
			return fmt.Errorf("seed question translation %s/%s: %w", id, lang, err)
		}
	}
	return nil
}
