package domain

// KeyPrefix is the default namespace for hrsearch keys in the shared
// database. Deployments override it via storage.key_prefix.
const KeyPrefix = "hrsearch:"
