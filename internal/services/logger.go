package services

import "go.uber.org/zap"

// Sugar is assigned by main during startup.
var Sugar = zap.NewNop().Sugar()
