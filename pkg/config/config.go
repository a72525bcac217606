package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDB                 string
	JWTAccessSecret         string
	JWTRefreshSecret        string
	FirebaseCredentialsPath string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "moodline"),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", "supersecretaccesskey"),
		JWTRefreshSecret:        getEnv("JWT_REFRESH_SECRET", "supersecretrefreshkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
