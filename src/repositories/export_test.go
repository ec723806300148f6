package repositories

var EscapeLike = escapeLike
