// seed crea el esquema, una sucursal y su usuario administrador inicial.
//
// Uso: go run ./cmd/seed -branch "Sede Centro" -email admin@restaurante.co -password secreto
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

func main() {
	branchName := flag.String("branch", "Principal", "nombre de la sucursal")
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "contraseña del administrador")
	name := flag.String("name", "Administrador", "nombre visible del administrador")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "se requiere -email y -password (mínimo 8 caracteres)")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}

	branchID, err := postgres.NewBranchRepository(pool).FindOrCreate(ctx, strings.TrimSpace(*branchName))
	if err != nil {
		log.Fatal().Err(err).Msg("sucursal")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}

	now := time.Now().UTC()
	admin := &entity.User{
		BranchID:     branchID,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Name:         *name,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = postgres.NewUserRepository(pool).Create(ctx, admin)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Warn().Str("email", admin.Email).Msg("el usuario ya existe, no se modifica")
		return
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	}

	log.Info().
		Int64("branch_id", branchID).
		Int64("user_id", admin.ID).
		Str("email", admin.Email).
		Msg("administrador creado")
}
