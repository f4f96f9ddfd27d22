package server

import (
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/container"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/schedule"
)

// RegisterSchedules wires the recurring maintenance tasks. The scheduler
// itself is started separately (Start, or the schedule:run command). Inside
// the server the HTTP kernel has already registered the service singletons;
// the standalone command binds its own.
func RegisterSchedules() {
	if !container.Has("services.products") {
		container.Singleton("services.products", func() interface{} {
			return services.NewProductService()
		})
	}
	products := container.Make("services.products").(*services.ProductService)
	catalog := repositories.NewProductRepository()

	// Keep the public catalog cache warm so the first shopper after an
	// invalidation does not pay for the query.
	schedule.Every(30).Minutes().Name("catalog:warm").WithoutOverlapping().Run(func() {
		if _, err := products.Catalog(""); err != nil {
			logger.Warn("schedule: catalog warm failed", "error", err)
		}
	})

	// Nightly restock report for the ops log.
	schedule.Daily().Name("stock:report").Run(func() {
		out, err := catalog.OutOfStock()
		if err != nil {
			logger.Warn("schedule: stock report failed", "error", err)
			return
		}
		if len(out) == 0 {
			logger.Info("schedule: stock report, nothing out of stock")
			return
		}
		for _, p := range out {
			logger.Warn("schedule: product out of stock", "id", p.ID, "name", p.Name)
		}
	})
}
