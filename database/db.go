package database

import (
	"context"
	"log"
	"time"

	"barberremind/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// DBClient is the global Firebase Realtime Database client instance.
var DBClient *db.Client

// InitDB initializes the Firebase Realtime Database connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)
	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: config.AppConfig.FirebaseDatabaseURL,
	}, opt)
	if err != nil {
		log.Fatalf("failed to initialize Firebase app: %v", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		log.Fatalf("failed to get Realtime Database client: %v", err)
	}
	DBClient = client
	log.Println("Connected to Firebase Realtime Database successfully!")
}
