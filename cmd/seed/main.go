// Command seed writes starter clients.json and users.json files so a
// fresh deployment has an admin login, a client login, and two client
// records to edit. Existing files are never overwritten.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/amiseo/cockpit/internal/auth"
	"github.com/amiseo/cockpit/internal/models"
)

func main() {
	dataDir := flag.String("data", "data", "directory for clients.json and users.json")
	flag.Parse()

	if err := run(*dataDir); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	if err := writeIfAbsent(filepath.Join(dataDir, "clients.json"), sampleClients()); err != nil {
		return err
	}

	usersPath := filepath.Join(dataDir, "users.json")
	if _, err := os.Stat(usersPath); err == nil {
		fmt.Println(usersPath, "already exists, leaving it alone")
		return nil
	}

	adminPassword := randomPassword()
	clientPassword := randomPassword()
	users, err := sampleUsers(adminPassword, clientPassword)
	if err != nil {
		return err
	}
	if err := writeIfAbsent(usersPath, users); err != nil {
		return err
	}

	// Printed once; only the hashes are stored.
	fmt.Println("admin login:   admin /", adminPassword)
	fmt.Println("client login:  boulangerie /", clientPassword)
	return nil
}

func writeIfAbsent(path string, v any) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Println(path, "already exists, leaving it alone")
		return nil
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func randomPassword() string {
	b := make([]byte, 9)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func sampleUsers(adminPassword, clientPassword string) ([]models.UserRecord, error) {
	adminHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, err
	}
	clientHash, err := auth.HashPassword(clientPassword)
	if err != nil {
		return nil, err
	}
	return []models.UserRecord{
		{
			ID:          uuid.NewString(),
			Username:    "admin",
			Password:    adminHash,
			Role:        models.RoleAdmin,
			DisplayName: "Équipe Amiseo",
		},
		{
			ID:          uuid.NewString(),
			Username:    "boulangerie",
			Password:    clientHash,
			Role:        models.RoleClient,
			DisplayName: "Boulangerie Martin",
			ClientID:    "boulangerie-martin",
		},
	}, nil
}

// sampleClients covers both stored shapes: one record still in the
// legacy single-period form, one already canonical with ecommerce data.
func sampleClients() []models.ClientRecord {
	return []models.ClientRecord{
		{
			ID:       "boulangerie-martin",
			Name:     "Boulangerie Martin",
			Industry: "Artisanat alimentaire",
			Summary:  "Visibilité locale et commandes en ligne pour trois boutiques.",
			KPIs: []models.KPI{
				{Label: "Trafic organique", Value: "4 200 visites", Helper: "+12% vs mois dernier"},
				{Label: "Appels depuis Google", Value: "85"},
			},
			MonthlyHighlights: []string{"Fiche établissement optimisée", "Campagne avis clients lancée"},
			ThisMonthActions:  []string{"Refonte de la page commandes"},
			NextMonthActions:  []string{"Lancement blog recettes"},
			Initiatives: []models.Initiative{
				{Title: "SEO local", Status: models.StatusActive, Details: "Optimisation des trois fiches boutiques."},
			},
		},
		{
			ID:       "atelier-lumiere",
			Name:     "Atelier Lumière",
			Industry: "Décoration",
			Summary:  "Boutique en ligne de luminaires artisanaux.",
			KPIPeriods: []models.KPIPeriod{
				{
					ID:    "periode-atelier-lumiere",
					Label: "Période en cours",
					KPIs: []models.KPI{
						{Label: "Chiffre d'affaires", Value: "18 400 €"},
						{Label: "Taux de conversion", Value: "2,4%"},
					},
					MonthlyHighlights: []string{"Nouvelle collection mise en ligne"},
					ThisMonthActions:  []string{"A/B test fiches produit"},
					NextMonthActions:  []string{"Campagne de Noël"},
				},
			},
			MonthlyHighlights: []string{"Nouvelle collection mise en ligne"},
			ThisMonthActions:  []string{"A/B test fiches produit"},
			NextMonthActions:  []string{"Campagne de Noël"},
			Initiatives: []models.Initiative{
				{Title: "Marketplace", Status: models.StatusMonitoring, Details: "Suivi des ventes Etsy."},
			},
			Ecommerce: &models.EcommerceSnapshot{
				Revenue:            "18 400 €",
				ConversionRate:     "2,4%",
				ReturningCustomers: "31%",
				TopProduct:         "Suspension Halo",
				AvgOrderValue:      "210 €",
				CartAbandonment:    "64%",
			},
			EcommercePeriods: []models.EcommercePeriod{
				{
					ID:    "ecom-atelier-lumiere",
					Label: "Mois en cours",
					Ecommerce: models.EcommerceSnapshot{
						Revenue:            "18 400 €",
						ConversionRate:     "2,4%",
						ReturningCustomers: "31%",
						TopProduct:         "Suspension Halo",
						AvgOrderValue:      "210 €",
						CartAbandonment:    "64%",
					},
				},
			},
		},
	}
}
