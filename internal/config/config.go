package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "time"    // time parses durations and hotel time zones
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Status codes refer to status_codes.code values
// in the room status catalog, which this service reads but never edits.
type Config struct {
    Env       string // application environment (e.g. "dev", "prod")
    Port      string // HTTP port to listen on
    DBUser    string // database username
    DBPass    string // database password (optional)
    DBHost    string // database host address
    DBPort    string // database port number
    DBName    string // database name
    DBTimeout time.Duration // deadline applied to every storage operation
    JWTSecret string // secret used to verify access tokens issued by the auth service

    HotelLocation *time.Location // zone used to decide what "today" is at the front desk

    StatusCodeOccupied   string // room status code for an occupied room ("1")
    StatusCodeOverdue    string // room status code for an overdue checkout ("12")
    StatusCodeCheckedOut string // room status code the front desk sets after checkout

    ReconcileInterval time.Duration // how often the background status/due scan runs
    IDPictureDir      string        // directory receiving guest identity pictures
    IDPictureMaxBytes int64         // upload limit for a single identity picture
    CheckoutLogDir    string        // directory of the checkout audit log written by the consumer
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:       must("APP_ENV"),
        Port:      must("APP_PORT"),
        DBUser:    must("DB_USER"),
        DBPass:    os.Getenv("DB_PASS"), // empty allowed
        DBHost:    must("DB_HOST"),
        DBPort:    must("DB_PORT"),
        DBName:    must("DB_NAME"),
        DBTimeout: envDur("DB_TIMEOUT", 5*time.Second),
        JWTSecret: must("JWT_SECRET"),

        HotelLocation: mustLocation(getenv("HOTEL_TIMEZONE", "Local")),

        StatusCodeOccupied:   getenv("STATUS_CODE_OCCUPIED", "1"),
        StatusCodeOverdue:    getenv("STATUS_CODE_OVERDUE", "12"),
        StatusCodeCheckedOut: getenv("STATUS_CODE_CHECKED_OUT", "3"),

        ReconcileInterval: envDur("RECONCILE_INTERVAL", 15*time.Minute),
        IDPictureDir:      getenv("ID_PICTURE_DIR", "assets/id_pictures"),
        IDPictureMaxBytes: int64(envInt("ID_PICTURE_MAX_BYTES", 5<<20)),
        CheckoutLogDir:    getenv("CHECKOUT_LOG_DIR", "logs"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func mustLocation(name string) *time.Location {
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Fatalf("invalid HOTEL_TIMEZONE %q: %v", name, err)
    }
    return loc
}
