package modkit

import "marketingetl/internal/modkit/module"

// Module is what every pipeline, warehouse and ledger module exposes
type Module = module.Module
