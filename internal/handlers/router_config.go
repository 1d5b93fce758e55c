package handlers

import "github.com/diewo77/nexusmanager/internal/services"

// RouterConfig holds the configured handlers of the application.
type RouterConfig struct {
	ClientHandler       *ClientHandler
	ContractHandler     *ContractHandler
	InterventionHandler *InterventionHandler
	HourPurchaseHandler *HourPurchaseHandler
}

// NewRouterConfig wires one handler per service.
func NewRouterConfig(svc *services.Services) *RouterConfig {
	return &RouterConfig{
		ClientHandler:       NewClientHandler(svc.Clients),
		ContractHandler:     NewContractHandler(svc.Contracts),
		InterventionHandler: NewInterventionHandler(svc.Interventions),
		HourPurchaseHandler: NewHourPurchaseHandler(svc.HourPurchases),
	}
}
