// Command clube-seed loads demonstration data into the configured backend:
// a few members, the current period's dues, some ledger entries and the
// month's events. It is a no-op when members already exist.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"clube/internal/backend"
	"clube/internal/cli"
	"clube/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	store := result.Store
	registry := services.NewRegistry(store, cfg.PageSize)
	dues := services.NewDues(store, cfg.DefaultDueCents)
	ledger := services.NewLedger(store, cfg.OpeningBalanceCents, cfg.RecentLimit)
	events := services.NewEvents(store)

	page, err := registry.List(ctx, "", 1)
	if err != nil {
		logger.Error("Failed to inspect registry", "error", err)
		os.Exit(1)
	}
	if page.Total > 0 {
		logger.Info("Registry already populated, nothing to seed", "members", page.Total)
		return
	}

	logger.Info("Seeding demonstration data")

	members := []services.MemberDraft{
		{
			Name:          "João Silva",
			BirthDate:     "2011-05-15",
			Unit:          "Falcão Peregrino",
			Class:         "Companheiro",
			Phone:         "(11) 99999-1111",
			Email:         "joao@email.com",
			Address:       "Rua das Flores, 123",
			GuardianName:  "Maria Silva",
			GuardianPhone: "(11) 99999-2222",
		},
		{
			Name:          "Ana Santos",
			BirthDate:     "2009-08-22",
			Unit:          "Águia Real",
			Class:         "Pesquisador",
			Phone:         "(11) 99999-3333",
			Email:         "ana@email.com",
			Address:       "Av. Principal, 456",
			GuardianName:  "Carlos Santos",
			GuardianPhone: "(11) 99999-4444",
		},
		{
			Name:          "Pedro Oliveira",
			BirthDate:     "2007-12-10",
			Unit:          "Gavião",
			Class:         "Pioneiro",
			Phone:         "(11) 99999-5555",
			Email:         "pedro@email.com",
			Address:       "Rua do Sol, 789",
			GuardianName:  "Lucia Oliveira",
			GuardianPhone: "(11) 99999-6666",
		},
	}
	for _, draft := range members {
		if _, err := registry.Register(ctx, draft); err != nil {
			logger.Error("Failed to seed member", "error", err, "member_name", draft.Name)
			os.Exit(1)
		}
	}

	now := time.Now()
	month, year := int(now.Month()), now.Year()
	created, err := dues.EnsurePeriodGenerated(ctx, month, year)
	if err != nil {
		logger.Error("Failed to generate dues", "error", err, "month", month, "year", year)
		os.Exit(1)
	}
	logger.Info("Generated current period dues", "month", month, "year", year, "created", created)

	today := now.Format("2006-01-02")
	transactions := []services.TransactionDraft{
		{Kind: "income", Category: "dues", Description: "Mensalidade - João Silva", Amount: "50,00", OccurredAt: today},
		{Kind: "expense", Category: "material", Description: "Compra de material para atividades", Amount: "25,00", OccurredAt: today},
		{Kind: "income", Category: "event", Description: "Arrecadação do acampamento", Amount: "200,00", OccurredAt: today},
	}
	for _, draft := range transactions {
		if _, err := ledger.Record(ctx, draft); err != nil {
			logger.Error("Failed to seed transaction", "error", err, "description", draft.Description)
			os.Exit(1)
		}
	}

	day := func(d, hour, min int) string {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", year, month, d, hour, min)
	}
	eventDrafts := []services.EventDraft{
		{
			Name:        "Reunião Semanal",
			Description: "Reunião regular do clube de desbravadores",
			StartsAt:    day(1, 19, 0),
			Location:    "Sede do Clube",
			Type:        "reunião",
		},
		{
			Name:        "Acampamento de Fim de Semana",
			Description: "Acampamento especial para todas as unidades",
			StartsAt:    day(15, 8, 0),
			EndsAt:      day(16, 17, 0),
			Location:    "Parque Municipal",
			Type:        "acampamento",
			Cost:        "25,00",
		},
		{
			Name:        "Especialidade de Culinária",
			Description: "Aula prática de culinária ao ar livre",
			StartsAt:    day(20, 14, 0),
			Location:    "Área de Churrasqueira",
			Type:        "especialidade",
		},
	}
	for _, draft := range eventDrafts {
		if _, err := events.Schedule(ctx, draft); err != nil {
			logger.Error("Failed to seed event", "error", err, "event_name", draft.Name)
			os.Exit(1)
		}
	}

	logger.Info("Demonstration data created",
		"members", len(members), "transactions", len(transactions), "events", len(eventDrafts))
}
