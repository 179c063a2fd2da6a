package handlers

import (
	"net/http"
	"time"

	"github.com/annalapradeBU/cafe-passport/auth"
	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/metrics"
	"github.com/annalapradeBU/cafe-passport/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
	mediaCacheTime        = 7 * 86400   // stored images never change
)

// NewRouter builds the engine with all middleware and routes. Init must
// have been called first.
func NewRouter(sessionStore sessions.Store) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = maxUploadMemory
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
		pprof.Register(router)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS_ORIGINS,
		AllowMethods:     []string{"GET", "PUT", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	sessionStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, sessionStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Accounts
	router.POST("/signup/", UserSignup)
	router.POST("/login/", UserLogin)
	router.POST("/logout/", UserLogout)
	authRouter.GET("/profile/:pk/", ProfileShow)
	authRouter.POST("/profile/theme/:theme_name/update/", ThemeUpdate)
	// Cafes
	router.GET("/all_cafes/", CafeList)
	router.GET("/cafe/:pk/", CafeShow)
	router.GET("/tags/", TagList)
	authRouter.POST("/cafes/new/", CafeCreate)
	authRouter.POST("/cafe/:pk/edit/", CafeUpdate)
	authRouter.POST("/cafe/:pk/delete/", CafeDelete, auth.PermissionStaff)
	// Visits
	authRouter.POST("/cafe/:pk/add_visit/", VisitCreate)
	authRouter.POST("/cafe/:pk/log_visit/", VisitLog)
	authRouter.PUT("/cafe/:pk/log_visit/", VisitLog)
	authRouter.GET("/visit/:pk/", VisitShow)
	authRouter.POST("/visit/:pk/update/", VisitUpdate)
	authRouter.POST("/visit/:pk/delete/", VisitDelete)
	authRouter.GET("/item/:pk/", ItemShow)
	// Stickers
	authRouter.POST("/sticker/place/", StickerPlace)
	authRouter.POST("/update-sticker/", StickerUpdate)
	authRouter.POST("/stickers/delete/", StickerDelete)
	// Wishlist
	authRouter.GET("/wishlist/", WishlistShow)
	authRouter.POST("/wishlist/add/", WishlistAdd)
	authRouter.POST("/cafe/:pk/add_wish/", WishAdd)
	authRouter.POST("/cafe/:pk/remove_wish/", WishRemove)
	// Storage
	router.GET("/media/*path", utils.CacheFor(mediaCacheTime), MediaFetch)
	authRouter.GET("/bucket/list", BucketList, auth.PermissionStaff)
	authRouter.POST("/bucket/save", BucketSave, auth.PermissionStaff)
	// Misc
	router.GET("/metrics", metrics.Handler())
	router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
	})
	return router
}
