// Package domain defines the core domain types and interfaces.
//
// Model types (NewsItem, SentimentResult, AnalysisReport), sentinel errors
// and the contracts the rest of the system implements (Strategy, ItemStore,
// NewsProvider, AppService). No implementation code - just contracts.
package domain
