package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"gamerent/internal/model"
)

func TestGameRepository_Create(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	game := &model.Game{
		Title:       "Tears of the Kingdom",
		Description: "Open-world adventure",
		PricePerDay: 5.99,
		Platform:    model.PlatformSwitch,
		Available:   true,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `games`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), game); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestGameRepository_GetByID(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "platform", "available"}).
		AddRow(1, "Spider-Man 2", "PS5", true)

	mock.ExpectQuery("SELECT \\* FROM `games` WHERE id = \\?").
		WillReturnRows(rows)

	game, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if game.Title != "Spider-Man 2" {
		t.Errorf("Expected Spider-Man 2, got %s", game.Title)
	}
}

func TestGameRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `games` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestGameRepository_Update_NotFound(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `games` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &model.Game{ID: 404, Title: "Gone"})
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestGameRepository_List_OrdersByTitle(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "platform", "available"}).
		AddRow(2, "Animal Crossing", "Nintendo Switch", true).
		AddRow(1, "Starfield", "Xbox Series X", true)

	mock.ExpectQuery("SELECT \\* FROM `games` ORDER BY title ASC").
		WillReturnRows(rows)

	games, err := repo.List(context.Background(), GameFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(games) != 2 || games[0].Title != "Animal Crossing" {
		t.Errorf("Expected title-ascending order, got %+v", games)
	}
}

func TestGameRepository_List_Filtered(t *testing.T) {
	db, mock := setupRentalTestDB(t)
	repo := NewGameRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `games` WHERE platform = \\? AND available = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "Spider-Man 2"))

	games, err := repo.List(context.Background(), GameFilter{
		Platform:      model.PlatformPS5,
		AvailableOnly: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(games) != 1 {
		t.Errorf("Expected one game, got %d", len(games))
	}
}
