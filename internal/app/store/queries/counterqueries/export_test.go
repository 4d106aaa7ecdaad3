package counterqueries

var SetPostCounters = setPostCounters
