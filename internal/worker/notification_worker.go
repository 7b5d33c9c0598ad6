package worker

import "context"

// HandlerRegistrar subscribes event handlers that feed the pool.
type HandlerRegistrar interface {
	RegisterHandlers()
}

// StartNotificationWorker starts the pool and then registers the handlers
// that submit to it, so no event is published into a pool that is not running.
func StartNotificationWorker(ctx context.Context, pool *Pool, registrar HandlerRegistrar) {
	if pool != nil {
		pool.Start(ctx)
	}
	if registrar != nil {
		registrar.RegisterHandlers()
	}
}
