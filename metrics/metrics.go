package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ProtocolForm = "form"
	ProtocolJSON = "json"
)

var (
	VisitsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafe_passport_visits_saved_total",
		Help: "Visits stored, by request protocol and mode",
	}, []string{"protocol", "mode"})

	StickerOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafe_passport_sticker_ops_total",
		Help: "Sticker operations, by operation and result",
	}, []string{"op", "result"})

	WishlistChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafe_passport_wishlist_changes_total",
		Help: "Wishlist additions and removals",
	}, []string{"change"})
)

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
