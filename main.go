package main

import (
	"context"
	"crypto/sha256"
	"log"
	"os"
	"time"

	"campgrounds-server/routes"
	"campgrounds-server/storage"
	"campgrounds-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/methodoverride"
	"github.com/kataras/iris/v12/sessions"
	"github.com/kataras/iris/v12/sessions/sessiondb/redis"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	dbURL := envOr("DB_URL", "mongodb://localhost:27017/yelp-camp")
	sessionSecret := envOr("SESSION_SECRET", "developmentSecretKey")
	port := envOr("PORT", "3000")

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := storage.Connect(connectCtx, dbURL)
	cancel()
	if err != nil {
		log.Panic("error connecting to db: " + err.Error())
	}
	store := storage.NewCampgroundStore(db)

	app := iris.New()
	v := validator.New()
	app.Validator = v

	app.RegisterView(iris.HTML("./views", ".html").Layout("layouts/main.html"))

	// HTML forms can only POST; _method in the query string or form body
	// upgrades to PUT/DELETE.
	app.WrapRouter(methodoverride.New(
		methodoverride.SaveOriginalMethod("_originalMethod"),
	))

	sess := sessions.New(sessions.Config{
		Cookie:       "campground_session",
		Expires:      7 * 24 * time.Hour, // 1 week
		AllowReclaim: true,
		Encoding:     securecookie.New(sessionKey(sessionSecret), nil),
	})
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		sessDB := redis.New(redis.Config{
			Network: "tcp",
			Addr:    redisURL,
			Timeout: 30 * time.Second,
			Prefix:  "campground-",
		})
		iris.RegisterOnInterrupt(func() { sessDB.Close() })
		sess.UseDatabase(sessDB)
		log.Println("Redis session store initialized with address:", redisURL)
	}
	app.Use(sess.Handler())

	// Expose the one-shot flash queues to every render; consuming clears
	// them, so each message survives exactly one redirect.
	app.Use(func(ctx iris.Context) {
		ctx.ViewData("success", utils.ConsumeFlash(ctx, "success"))
		ctx.ViewData("error", utils.ConsumeFlash(ctx, "error"))
		ctx.Next()
	})

	app.OnAnyErrorCode(func(ctx iris.Context) {
		message := utils.ErrorMessage(ctx)
		if message == "" {
			if ctx.GetStatusCode() == iris.StatusNotFound {
				message = "Page Not Found"
			} else {
				message = "Something went wrong"
			}
		}
		ctx.ViewData("statusCode", ctx.GetStatusCode())
		ctx.ViewData("message", message)
		ctx.View("error.html")
	})

	campgrounds := routes.NewCampgrounds(store, v)
	reviews := routes.NewReviews(store, v)

	app.Get("/", campgrounds.Home)
	cg := app.Party("/campgrounds")
	{
		cg.Get("/", campgrounds.Index)
		cg.Get("/new", campgrounds.New)
		cg.Post("/", campgrounds.Create)
		cg.Get("/{id}", campgrounds.Show)
		cg.Get("/{id}/edit", campgrounds.Edit)
		cg.Put("/{id}", campgrounds.Update)
		cg.Delete("/{id}", campgrounds.Delete)
		cg.Post("/{id}/reviews", reviews.Create)
		cg.Delete("/{id}/reviews/{reviewId}", reviews.Delete)
	}

	app.Listen(":" + port)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// sessionKey stretches the configured secret to the 32 bytes securecookie
// expects for its hash key.
func sessionKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}
