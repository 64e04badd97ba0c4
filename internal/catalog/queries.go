package catalog

// All documents hit the same endpoint. Null variables are not constraints,
// so one document per shape covers every facet.

const mediaFields = `
      id
      title {
        romaji
        english
      }
      coverImage {
        large
        extraLarge
      }
      type
      countryOfOrigin
      averageScore
      rankings {
        rank
        type
        allTime
      }
      genres
`

// feedQuery is the batched multi-section document: four independently sorted
// selections under the same filter, one round trip, one remote snapshot.
const feedQuery = `
query ($type: MediaType, $country: CountryCode) {
  heroes: Page(page: 1, perPage: 5) {
    media(sort: TRENDING_DESC, type: $type, countryOfOrigin: $country, isAdult: false) {` + mediaFields + `    }
  }
  popular: Page(page: 1, perPage: 6) {
    media(sort: POPULARITY_DESC, type: $type, countryOfOrigin: $country, isAdult: false) {` + mediaFields + `    }
  }
  topRated: Page(page: 1, perPage: 6) {
    media(sort: SCORE_DESC, type: $type, countryOfOrigin: $country, isAdult: false) {` + mediaFields + `    }
  }
  favourites: Page(page: 1, perPage: 6) {
    media(sort: FAVOURITES_DESC, type: $type, countryOfOrigin: $country, isAdult: false) {` + mediaFields + `    }
  }
}
`

// similarQuery returns up to 5 community recommendations for one id,
// best-rated first.
const similarQuery = `
query ($id: Int) {
  Media(id: $id) {
    recommendations(perPage: 5, sort: RATING_DESC) {
      nodes {
        mediaRecommendation {` + mediaFields + `        }
      }
    }
  }
}
`

// searchQuery fans the same term across the four taxonomy buckets in a
// single document, up to 6 hits each.
const searchQuery = `
query ($search: String) {
  anime: Page(page: 1, perPage: 6) {
    media(search: $search, sort: POPULARITY_DESC, type: ANIME, isAdult: false) {` + mediaFields + `    }
  }
  manga: Page(page: 1, perPage: 6) {
    media(search: $search, sort: POPULARITY_DESC, type: MANGA, countryOfOrigin: "JP", isAdult: false) {` + mediaFields + `    }
  }
  manhwa: Page(page: 1, perPage: 6) {
    media(search: $search, sort: POPULARITY_DESC, type: MANGA, countryOfOrigin: "KR", isAdult: false) {` + mediaFields + `    }
  }
  manhua: Page(page: 1, perPage: 6) {
    media(search: $search, sort: POPULARITY_DESC, type: MANGA, countryOfOrigin: "CN", isAdult: false) {` + mediaFields + `    }
  }
}
`

const detailQuery = `
query ($id: Int) {
  Media(id: $id) {
    id
    title {
      romaji
      english
      native
    }
    coverImage {
      large
      extraLarge
    }
    bannerImage
    description
    status
    type
    countryOfOrigin
    episodes
    chapters
    volumes
    averageScore
    genres
    relations {
      edges {
        relationType
        node {
          id
          title {
            romaji
          }
          coverImage {
            medium
          }
          type
        }
      }
    }
  }
}
`
