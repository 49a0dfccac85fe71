package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"barberremind/config"
	"barberremind/database"
	appointmentRepo "barberremind/database/repository/appointment"
	shopRepo "barberremind/database/repository/shop"
	"barberremind/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Seeds a demo shop with fake appointments for a given date, so the
// dispatch endpoint has something to chew on.
func main() {
	shopID := flag.String("shop", "demo-shop", "shop id to seed")
	shopName := flag.String("name", "", "barber display name (random when empty)")
	date := flag.String("date", time.Now().Format("2006-01-02"), "appointment date (YYYY-MM-DD)")
	count := flag.Int("count", 10, "number of appointments to create")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	config.LoadConfig()
	database.InitDB()

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shops := shopRepo.NewFirebaseShopRepo(database.DBClient)
	name := *shopName
	if name == "" {
		name = gofakeit.FirstName()
	}
	if err := shops.SetInfo(ctx, *shopID, models.ShopInfo{Name: name}); err != nil {
		log.Fatalf("seed shop info: %v", err)
	}

	appts := appointmentRepo.NewFirebaseAppointmentRepo(database.DBClient)
	for i := 0; i < *count; i++ {
		hour := 9 + i%9
		minute := 30 * (i % 2)
		appt := models.Appointment{
			Name:  gofakeit.Name(),
			Phone: gofakeit.Numerify("05########"),
			Time:  fmt.Sprintf("%02d:%02d", hour, minute),
		}
		id := uuid.NewString()
		if err := appts.Create(ctx, *shopID, *date, id, appt); err != nil {
			log.Fatalf("seed appointment: %v", err)
		}
	}

	log.Printf("seed complete: shop=%s date=%s appointments=%d", *shopID, *date, *count)
}
