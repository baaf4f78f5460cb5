package gormstore

import (
	"time"

	"github.com/secureauth/secureauth/account"
)

type gormAccount struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"size:50"`
	Email        string `gorm:"uniqueIndex;size:254"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gormAccount) TableName() string { return "accounts" }

func toAccount(ga *gormAccount) *account.Account {
	if ga == nil {
		return nil
	}
	return &account.Account{
		ID:           ga.ID,
		Name:         ga.Name,
		Email:        ga.Email,
		PasswordHash: ga.PasswordHash,
		CreatedAt:    ga.CreatedAt,
		UpdatedAt:    ga.UpdatedAt,
	}
}

func fromAccount(a *account.Account) *gormAccount {
	if a == nil {
		return nil
	}
	return &gormAccount{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
