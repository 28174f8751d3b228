package domain

// KeyPrefix namespaces every key this service touches in the shared store.
const KeyPrefix = "discovery:"
